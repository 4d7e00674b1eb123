package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/docchat/go-assistant/internal/docs"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay run: a document
// corpus, scripted generation outputs, and the turns to drive through the
// workflow with their expected routing.
type Fixture struct {
	Description string             `json:"description"`
	Documents   []FixtureDocument  `json:"documents"`
	Script      map[string][]string `json:"script"`   // schema name to one-shot payload queue
	Defaults    map[string]string   `json:"defaults"` // schema name to sticky payload
	Turns       []FixtureTurn       `json:"turns"`
}

// FixtureDocument is a JSON-serializable document seed.
type FixtureDocument struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// FixtureTurn is one input plus the expected routing and response kind.
type FixtureTurn struct {
	Input     string `json:"input"`
	WantStage string `json:"want_stage"`
	WantKind  string `json:"want_kind"`
}

// #endregion fixture-types

// #region load

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if len(fx.Turns) == 0 {
		return Fixture{}, fmt.Errorf("fixture has no turns")
	}
	return fx, nil
}

// #endregion load

// #region documents

func (f Fixture) documents() []docs.Document {
	out := make([]docs.Document, len(f.Documents))
	for i, d := range f.Documents {
		out[i] = docs.Document{
			ID:       d.ID,
			Type:     d.Type,
			Title:    d.Title,
			Content:  d.Content,
			Amount:   d.Amount,
			Currency: d.Currency,
		}
	}
	return out
}

// #endregion documents
