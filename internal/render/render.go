// Package render writes the option-chain output encodings: JSON, CSV,
// NDJSON, line-numbered text, and plain-text JSON.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON renders payload as an application/json body, indented when
// pretty.
func WriteJSON(w http.ResponseWriter, payload any, pretty bool) error {
	var (
		body []byte
		err  error
	)
	if pretty {
		body, err = json.MarshalIndent(payload, "", "  ")
	} else {
		body, err = json.Marshal(payload)
	}
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(body)
	return err
}

// WriteText renders payload as indented JSON served as plain text, for
// terminals and chat clients that mangle JSON bodies.
func WriteText(w http.ResponseWriter, payload any) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, err = w.Write(body)
	return err
}

// WriteNDJSON streams the meta object on the first line and one row per line
// after it.
func WriteNDJSON(w http.ResponseWriter, meta any, rows []any) error {
	w.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Cache-Control", "no-store")

	enc := json.NewEncoder(w)
	if err := enc.Encode(meta); err != nil {
		return err
	}
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteLines renders the meta object and rows as numbered lines (L0001,
// L0002, ...), one JSON document per line. The numbering keeps chat clients
// from reflowing the output.
func WriteLines(w http.ResponseWriter, meta any, rows []any) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("Cache-Control", "no-store")

	docs := make([]any, 0, len(rows)+1)
	docs = append(docs, meta)
	docs = append(docs, rows...)

	for i, doc := range docs {
		encoded, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "L%04d %s\n", i+1, encoded); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV renders a header row plus one record per row. The download flag
// switches the disposition from inline to attachment.
func WriteCSV(w http.ResponseWriter, headers []string, records [][]string, filename, lastUpdated string, download bool) error {
	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%s", disposition, filename))
	w.Header().Set("X-Last-Updated", lastUpdated)

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
