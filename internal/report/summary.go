package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"diffsql/internal/runinfo"
	"diffsql/internal/util"
)

// Summary captures the persisted metadata for a case.
type Summary struct {
	Oracle          string         `json:"oracle"`
	Kind            string         `json:"kind"`
	Query           string         `json:"query"`
	SQL             []string       `json:"sql"`
	Expected        string         `json:"expected"`
	Actual          string         `json:"actual"`
	Error           string         `json:"error"`
	ReferenceEngine string         `json:"reference_engine"`
	CompareMode     string         `json:"compare_mode"`
	Seed            int64          `json:"seed"`
	UploadLocation  string         `json:"upload_location"`
	CaseID          string         `json:"case_id"`
	CaseDir         string         `json:"case_dir"`
	ArchiveName     string         `json:"archive_name"`
	ArchiveCodec    string         `json:"archive_codec"`
	Details         map[string]any `json:"details"`
	Timestamp       string         `json:"timestamp"`
	ServerVersion   string         `json:"server_version"`
	RunInfo         *runinfo.Info  `json:"run_info,omitempty"`
}

// WriteSummary writes summary.json into the case directory.
func (r *Reporter) WriteSummary(c Case, summary Summary) error {
	f, err := os.Create(filepath.Join(c.Dir, "summary.json"))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "summary output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return encodeSummaryStable(enc, summary)
}

// ReadSummary loads summary.json from a case directory.
func ReadSummary(dir string) (Summary, error) {
	var summary Summary
	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		return summary, err
	}
	err = json.Unmarshal(data, &summary)
	return summary, err
}

// encodeSummaryStable writes details with sorted keys at every level so
// summaries diff cleanly.
func encodeSummaryStable(enc *json.Encoder, summary Summary) error {
	type summaryAlias Summary
	alias := summaryAlias(summary)
	rawDetails, err := encodeOrderedValue(alias.Details)
	if err != nil {
		return err
	}
	alias.Details = nil
	payload := struct {
		summaryAlias
		Details json.RawMessage `json:"details"`
	}{
		summaryAlias: alias,
		Details:      rawDetails,
	}
	return enc.Encode(payload)
}

func encodeOrderedValue(v any) (json.RawMessage, error) {
	if v == nil {
		return json.RawMessage("null"), nil
	}
	var buf bytes.Buffer
	if err := writeOrderedJSON(&buf, v); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}

func writeOrderedJSON(w io.Writer, v any) error {
	if v == nil {
		_, err := io.WriteString(w, "null")
		return err
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return writeOrderedMap(w, rv)
		}
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() != reflect.Uint8 {
			return writeOrderedSlice(w, rv)
		}
	}
	return writeScalarJSON(w, v)
}

func writeOrderedMap(w io.Writer, rv reflect.Value) error {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	for i, key := range keys {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := writeScalarJSON(w, key); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ":"); err != nil {
			return err
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if err := writeOrderedJSON(w, val.Interface()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}

func writeOrderedSlice(w io.Writer, rv reflect.Value) error {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		_, err := io.WriteString(w, "null")
		return err
	}
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if err := writeOrderedJSON(w, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

func writeScalarJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}
