package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

type handlerConfig struct {
	level    slog.Leveler
	writer   *lineWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler formats records as single lines with a fixed key order,
// enriching them with identifiers carried in context.
type structuredHandler struct {
	cfg   handlerConfig
	attrs []slog.Attr
	group string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

// Enabled reports whether the handler allows processing the provided level.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

// Handle formats the slog.Record and writes it using the configured writer.
func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return fmt.Errorf("logger: writer not initialized")
	}

	fields := make(map[string]any, 16)
	ts := r.Time.UTC()
	fields["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	fields["level"] = normalizeLevel(r.Level.String())
	if h.cfg.format == formatJSON {
		fields["ts_unix_nano"] = ts.UnixNano()
	}

	for _, a := range h.attrs {
		h.collect(fields, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.collect(fields, a)
		return true
	})

	h.addContextFields(ctx, fields)

	if rid, _ := fields["rid"].(string); rid != "" {
		if compact := CompactRID(rid); compact != rid {
			if h.cfg.format == formatJSON {
				fields["rid_full"] = rid
			}
			fields["rid"] = compact
		}
	}
	if ev, _ := fields["event"].(string); ev == "" {
		if r.Message != "" {
			fields["event"] = r.Message
		} else {
			fields["event"] = "unknown"
		}
	}
	if comp, _ := fields["component"].(string); comp == "" {
		fields["component"] = "app"
	}

	var line []byte
	var err error
	switch h.cfg.format {
	case formatJSON:
		line, err = jsonLine(fields, h.cfg.keyOrder)
	default:
		line = kvLine(fields, h.cfg.keyOrder)
	}
	if err != nil {
		return err
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

// WithAttrs returns a copy of the handler enriched with attrs.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup returns a copy of the handler with an additional key prefix.
func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *structuredHandler) collect(fields map[string]any, attr slog.Attr) {
	key := attr.Key
	if key == "" {
		return
	}
	if h.group != "" {
		key = h.group + "." + key
	}
	val := attr.Value.Resolve()
	switch val.Kind() {
	case slog.KindGroup:
		for _, child := range val.Group() {
			sub := child
			sub.Key = key + "." + child.Key
			h.collect(fields, sub)
		}
	case slog.KindString:
		fields[key] = strings.TrimSpace(val.String())
	case slog.KindDuration:
		fields[key] = RoundMS(val.Duration()).String()
	case slog.KindTime:
		fields[key] = val.Time().UTC().Format(timeFormatMillis)
	case slog.KindInt64:
		fields[key] = val.Int64()
	case slog.KindUint64:
		fields[key] = val.Uint64()
	case slog.KindFloat64:
		fields[key] = val.Float64()
	case slog.KindBool:
		fields[key] = val.Bool()
	default:
		fields[key] = fmt.Sprint(val.Any())
	}
}

func (h *structuredHandler) addContextFields(ctx context.Context, fields map[string]any) {
	if ctx == nil {
		return
	}
	if _, ok := fields["rid"]; !ok {
		if rid := RIDFrom(ctx); rid != "" {
			fields["rid"] = rid
		}
	}
	if _, ok := fields["handler"]; !ok {
		if hn := HandlerFrom(ctx); hn != "" {
			fields["handler"] = hn
		}
	}
	if _, ok := fields["update_id"]; !ok {
		if id := UpdateIDFrom(ctx); id != 0 {
			fields["update_id"] = int64(id)
		}
	}
	if _, ok := fields["user_id"]; !ok {
		if id := UserIDFrom(ctx); id != 0 {
			fields["user_id"] = id
		}
	}
	if _, ok := fields["chat_id"]; !ok {
		if id := ChatIDFrom(ctx); id != 0 {
			fields["chat_id"] = id
		}
	}
}

// orderedKeys returns all field keys: pinned order first, the rest sorted.
func orderedKeys(fields map[string]any, keyOrder []string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, k := range keyOrder {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func kvLine(fields map[string]any, keyOrder []string) []byte {
	var b strings.Builder
	for _, k := range orderedKeys(fields, keyOrder) {
		if k == "ts_unix_nano" || k == "rid_full" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kvValue(fields[k]))
	}
	return []byte(b.String())
}

func kvValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	s = Sanitize(s)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

func jsonLine(fields map[string]any, keyOrder []string) ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for _, k := range orderedKeys(fields, keyOrder) {
		val, err := json.Marshal(fields[k])
		if err != nil {
			return nil, fmt.Errorf("logger: marshal field %s: %w", k, err)
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
