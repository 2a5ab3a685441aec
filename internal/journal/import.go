package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"gorm.io/datatypes"

	"tradify/internal/logger"
	"tradify/internal/store"
	"tradify/internal/store/model"
)

// tradeImportSchema constrains a bulk-import document before any row is
// decoded. Field-level semantics (entry != exit, date ordering) are still
// enforced by TradeInput; the schema rejects structurally broken payloads
// early with a positional error.
const tradeImportSchema = `{
  "type": "object",
  "required": ["trades"],
  "properties": {
    "trades": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["ticker", "position"],
        "properties": {
          "ticker": {"type": "string", "minLength": 1},
          "position": {"enum": ["Long", "Short"]},
          "asset_type": {"enum": ["Stock", "Crypto", "Forex"]},
          "entry_price": {"type": "number", "exclusiveMinimum": 0},
          "exit_price": {"type": "number", "exclusiveMinimum": 0},
          "position_size": {"type": "number", "exclusiveMinimum": 0},
          "commission": {"type": "number", "minimum": 0},
          "pnl": {"type": "number"},
          "open_date": {"type": "string"},
          "close_date": {"type": "string"},
          "strategy": {"type": "string"},
          "journal_notes": {"type": "string"},
          "execution_rating": {"type": "integer", "minimum": 1, "maximum": 5}
        }
      }
    }
  }
}`

var importSchema = jsonschema.MustCompileString("trade_import.json", tradeImportSchema)

// ImportResult reports on a completed bulk import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Tickers  []string `json:"tickers"`
}

type importDocument struct {
	Trades []TradeInput `json:"trades"`
}

// ImportTrades validates a JSON document against the import schema and
// inserts every row in one transaction; a single bad row rejects the whole
// batch.
func (s *Service) ImportTrades(ctx context.Context, userID string, raw []byte) (ImportResult, error) {
	if !gjson.ValidBytes(raw) {
		return ImportResult{}, fmt.Errorf("import payload is not valid json")
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportResult{}, fmt.Errorf("decoding import payload failed: %w", err)
	}
	if err := importSchema.Validate(doc); err != nil {
		return ImportResult{}, fmt.Errorf("import payload rejected: %w", err)
	}

	var parsed importDocument
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ImportResult{}, fmt.Errorf("decoding import payload failed: %w", err)
	}

	uow, err := s.store.Begin(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	imported, tickers, err := s.importIntoUnit(ctx, uow, userID, parsed.Trades)
	if err != nil {
		_ = uow.Rollback()
		return ImportResult{}, err
	}
	if err := uow.Commit(); err != nil {
		return ImportResult{}, err
	}

	logger.Infof("imported %d trades for user %s", imported, userID)
	if _, err := s.Recompute(ctx, userID); err != nil {
		logger.Warnf("recompute after import failed for user %s: %v", userID, err)
	}
	return ImportResult{Imported: imported, Tickers: tickers}, nil
}

func (s *Service) importIntoUnit(ctx context.Context, uow store.UnitOfWork, userID string, inputs []TradeInput) (int, []string, error) {
	now := s.now().UTC()
	seen := make(map[string]bool)
	var tickers []string
	for i, in := range inputs {
		trade, err := in.toTrade(now)
		if err != nil {
			return 0, nil, fmt.Errorf("trade #%d invalid: %w", i+1, err)
		}
		if !s.validStrategy(trade.Strategy) {
			return 0, nil, fmt.Errorf("trade #%d invalid: unknown strategy %q", i+1, trade.Strategy)
		}
		trade.ID = uuid.NewString()
		trade.UserID = userID
		tm := model.TradeFromDomain(trade)
		if err := uow.Trades().Create(ctx, &tm); err != nil {
			return 0, nil, fmt.Errorf("trade #%d insert failed: %w", i+1, err)
		}
		if !seen[trade.Ticker] {
			seen[trade.Ticker] = true
			tickers = append(tickers, trade.Ticker)
		}
	}
	raw, _ := json.Marshal(map[string]any{"count": len(inputs), "tickers": strings.Join(tickers, ",")})
	entry := &model.ActivityLogModel{
		UserID:    userID,
		Action:    "trade.import",
		Details:   datatypes.JSON(raw),
		Timestamp: now.UnixMilli(),
	}
	if err := uow.Activity().Insert(ctx, entry); err != nil {
		return 0, nil, err
	}
	return len(inputs), tickers, nil
}
