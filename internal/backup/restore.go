package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/calloway/gatelink-core/internal/gate"
	"github.com/calloway/gatelink-core/internal/infrastructure/storage"
)

// Logger defines the logging interface used by the Engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Engine reconstructs the key-space from backup text that may be
// truncated, wrapped in extraneous output, or otherwise malformed. It
// never fabricates data beyond what was actually extracted from the input.
type Engine struct {
	store  storage.Store
	logger Logger
}

// NewEngine creates a restore engine over the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{store: store, logger: noopLogger{}}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// startMarkers are the plausible JSON-object openings searched for when
// the payload carries leading noise (log lines, shell prompts).
var startMarkers = []string{`{"`, "{\n\"", `{ "`}

// trailingCommaPattern matches a comma immediately before a closing brace
// or bracket, the most common hand-edit and truncation artefact.
var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// pairPattern matches top-level "key": value pairs where the value is a
// quoted string, number, boolean, null, flat object or flat array. Nested
// values are deliberately out of reach; this is the last-resort strategy.
var pairPattern = regexp.MustCompile(
	`"((?:[^"\\]|\\.)+)"\s*:\s*(` +
		`"(?:[^"\\]|\\.)*"` + // string
		`|-?[0-9]+(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?` + // number
		`|true|false|null` +
		`|\{[^{}]*\}` + // flat object
		`|\[[^\[\]]*\]` + // flat array
		`)`,
)

// Restore parses the payload and replaces the store's content with the
// extracted key-space. Stages run in order, each handing over to the next
// on failure:
//
//  1. empty guard (ErrEmptyBackup, store untouched)
//  2. leading-noise trim via start markers
//  3. trailing-noise truncation via brace balancing
//  4. strict parse, then trailing-comma repair, then pair extraction
//     (ErrMalformedBackup when all three fail)
//  5. shape normalisation (ErrUnsupportedFormat)
//  6. destructive replace, counting successful writes (ErrRestoreFailed
//     when zero keys could be written; partial success is tolerated)
func (e *Engine) Restore(ctx context.Context, payload string) error {
	if strings.TrimSpace(payload) == "" {
		return ErrEmptyBackup
	}

	text := trimLeadingNoise(payload)
	text = truncateAfterBalance(text)

	parsed, err := parse(text)
	if err != nil {
		return err
	}

	keyspace, err := normalize(parsed)
	if err != nil {
		return err
	}

	return e.replace(ctx, keyspace)
}

// trimLeadingNoise discards everything before the earliest plausible
// JSON-object opening. Payloads that already open with a JSON token
// (including bare arrays, whose elements contain object markers) and
// payloads without any marker are returned unchanged.
func trimLeadingNoise(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return text
	}

	start := -1
	for _, marker := range startMarkers {
		if idx := strings.Index(text, marker); idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start > 0 {
		return text[start:]
	}
	return text
}

// truncateAfterBalance scans brace depth and cuts everything after the
// offset where depth first returns to zero, stripping trailing noise such
// as "EOF" markers appended by transfer tools. Only applied to payloads
// that open with a brace; arrays pass through untouched.
func truncateAfterBalance(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return text
	}

	depth := 0
	seen := false
	for i, c := range trimmed {
		switch c {
		case '{':
			depth++
			seen = true
		case '}':
			depth--
		}
		if seen && depth == 0 {
			return trimmed[:i+1]
		}
	}
	return trimmed
}

// parseStrategy is one independent, pure parsing attempt.
type parseStrategy struct {
	name  string
	parse func(text string) (any, error)
}

// strategies is the ordered repair chain. The first success wins.
var strategies = []parseStrategy{
	{"strict", parseStrict},
	{"trailing-comma repair", parseRepaired},
	{"pair extraction", parseExtracted},
}

// parse runs the strategy chain and returns the first successful result,
// or ErrMalformedBackup when every strategy fails.
func parse(text string) (any, error) {
	for _, s := range strategies {
		if v, err := s.parse(text); err == nil {
			return v, nil
		}
	}
	return nil, ErrMalformedBackup
}

func parseStrict(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseRepaired(text string) (any, error) {
	repaired := trailingCommaPattern.ReplaceAllString(text, "$1")
	return parseStrict(repaired)
}

// parseExtracted scavenges "key": value pairs from text that no longer
// parses as a whole. Only flat values are recovered; whatever is found
// becomes a best-effort key-space.
func parseExtracted(text string) (any, error) {
	matches := pairPattern.FindAllStringSubmatch(text, -1)

	result := make(map[string]any)
	for _, m := range matches {
		var key string
		if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &key); err != nil {
			continue
		}
		var value any
		if err := json.Unmarshal([]byte(m[2]), &value); err != nil {
			continue
		}
		result[key] = value
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no key/value pairs extracted")
	}
	return result, nil
}

// normalize maps the parsed payload onto a key-space. Accepted shapes:
// an envelope with a top-level "data" object, a flat object, or a bare
// array (a legacy device-list export, wrapped under the devices key).
func normalize(parsed any) (map[string]any, error) {
	switch v := parsed.(type) {
	case map[string]any:
		if data, ok := v["data"].(map[string]any); ok {
			return data, nil
		}
		return v, nil
	case []any:
		return map[string]any{gate.DevicesKey: v}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// replace clears the store (best effort) and writes the key-space,
// serialising non-string values back to JSON text.
func (e *Engine) replace(ctx context.Context, keyspace map[string]any) error {
	existing, err := e.store.Keys(ctx)
	if err != nil {
		e.logger.Warn("restore: listing existing keys failed", "error", err)
	} else if len(existing) > 0 {
		if err := e.store.MultiRemove(ctx, existing); err != nil {
			e.logger.Warn("restore: clearing existing keys failed", "error", err)
		}
	}

	written := 0
	for key, value := range keyspace {
		text, ok := value.(string)
		if !ok {
			data, err := json.Marshal(value)
			if err != nil {
				e.logger.Warn("restore: serialising value failed", "key", key, "error", err)
				continue
			}
			text = string(data)
		}

		if err := e.store.Set(ctx, key, text); err != nil {
			e.logger.Warn("restore: writing key failed", "key", key, "error", err)
			continue
		}
		written++
	}

	if written == 0 {
		return ErrRestoreFailed
	}

	e.logger.Info("restore complete", "keys_written", written, "keys_total", len(keyspace))
	return nil
}
