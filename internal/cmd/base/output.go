package base

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// TimeLayout is used for timestamps shown in tables.
const TimeLayout = "2006-01-02 15:04"

// CheckFormat returns an error if format is not a known output format.
func CheckFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q, must be one of: table, json, yaml", format)
	}
}

// Encode renders v as indented JSON or as YAML.
func Encode(format string, v any) (string, error) {
	switch format {
	case FormatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("error encoding YAML: %w", err)
		}
		return strings.TrimRight(string(out), "\n"), nil
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error encoding JSON: %w", err)
		}
		return string(out), nil
	}
}

// Print writes v to the UI in the given encoded format.
func (c *Command) Print(format string, v any) error {
	out, err := Encode(format, v)
	if err != nil {
		return err
	}
	c.UI.Output(out)
	return nil
}

// Table writes rows as aligned columns under header.
func (c *Command) Table(header []string, rows [][]string) {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	c.UI.Output(strings.TrimRight(b.String(), "\n"))
}

// Timestamp formats a service timestamp for display in local time. Values
// that do not parse are returned unchanged.
func Timestamp(value any) string {
	s, ok := value.(string)
	if !ok || s == "" {
		return Value(value)
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return s
	}
	return t.In(time.Local).Format(TimeLayout)
}

// Label turns a wire key such as "openAiPrompt" into "Open ai prompt".
func Label(key string) string {
	label := strcase.ToDelimited(key, ' ')
	if label == "" {
		return key
	}
	r := []rune(label)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Value formats a decoded JSON value for a table cell.
func Value(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	default:
		return fmt.Sprint(v)
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
