// Package roster loads the recipient list from a header-keyed CSV file.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"coldmailer/internal/campaign"
)

// Load reads recipients from a CSV file. The first row names the fields;
// every following row becomes one campaign.Recipient.
//
// Rows shorter than the header keep only the fields they have, like a
// spreadsheet export with trailing blanks trimmed. A row without an email
// value still loads; the dispatcher reports it per-recipient.
func Load(path string) ([]campaign.Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("recipient file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var recipients []campaign.Recipient
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(recipients)+2, err)
		}
		rcpt := make(campaign.Recipient, len(header))
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			rcpt[name] = row[i]
		}
		recipients = append(recipients, rcpt)
	}
	return recipients, nil
}

// WriteSample writes a starter roster matching the sample config's template.
func WriteSample(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"email", "first_name", "last_name", "company", "industry",
		"potential_project", "your_name", "your_title", "your_company", "your_phone",
	}
	rows := [][]string{
		{"john.doe@example.com", "John", "Doe", "TechCorp", "software development",
			"web application development", "Jane Smith", "Business Development Manager",
			"Innovation Labs", "+1-555-0123"},
		{"jane.smith@example.com", "Jane", "Smith", "StartupXYZ", "e-commerce",
			"digital marketing strategy", "Jane Smith", "Business Development Manager",
			"Innovation Labs", "+1-555-0123"},
	}
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
