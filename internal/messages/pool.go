// Package messages is the encouragement repository: a read-only pool
// of affirmation messages keyed by journey stage and situational
// context. The pool ships embedded in the binary and is validated
// against a JSON Schema at load time, so a malformed pool is a startup
// error rather than a silent gap at selection time.
package messages

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ashwin/cadence/internal/rhythm"
)

//go:embed pool.json
var poolJSON []byte

//go:embed pool_schema.json
var poolSchemaJSON []byte

// entry is the on-disk form of one message.
type entry struct {
	ID      string `json:"id"`
	Stage   string `json:"stage"`
	Context string `json:"context"`
	Tier    string `json:"tier,omitempty"`
	Text    string `json:"text"`
}

// Pool is an in-memory message repository. Implements
// rhythm.MessageSource.
type Pool struct {
	entries []rhythm.Message
}

var _ rhythm.MessageSource = (*Pool)(nil)

// Load parses and validates the embedded pool.
func Load() (*Pool, error) {
	return load(poolJSON)
}

func load(raw []byte) (*Pool, error) {
	if err := validatePool(raw); err != nil {
		return nil, err
	}

	var doc struct {
		Messages []entry `json:"messages"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse message pool: %w", err)
	}

	seen := make(map[string]bool, len(doc.Messages))
	pool := &Pool{entries: make([]rhythm.Message, 0, len(doc.Messages))}
	for _, e := range doc.Messages {
		if seen[e.ID] {
			return nil, fmt.Errorf("message pool: duplicate id %q", e.ID)
		}
		seen[e.ID] = true
		pool.entries = append(pool.entries, rhythm.Message{
			ID:       e.ID,
			Stage:    rhythm.Stage(e.Stage),
			Context:  rhythm.MessageContext(e.Context),
			TierName: e.Tier,
			Text:     e.Text,
		})
	}
	return pool, nil
}

// Messages returns all entries for the given stage and context.
func (p *Pool) Messages(stage rhythm.Stage, context rhythm.MessageContext) ([]rhythm.Message, error) {
	var out []rhythm.Message
	for _, m := range p.entries {
		if m.Stage == stage && m.Context == context {
			out = append(out, m)
		}
	}
	return out, nil
}

// Len reports the total pool size.
func (p *Pool) Len() int { return len(p.entries) }

// validatePool checks the raw pool document against the embedded schema.
func validatePool(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("message pool is not valid JSON: %w", err)
	}
	var schemaParsed any
	if err := json.Unmarshal(poolSchemaJSON, &schemaParsed); err != nil {
		return fmt.Errorf("parse pool schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://message_pool.json"
	if err := c.AddResource(schemaURL, schemaParsed); err != nil {
		return fmt.Errorf("add pool schema resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile pool schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("message pool failed schema validation: %w", err)
	}
	return nil
}
