package fitstat

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/core/domain"
)

// Entry is a single user supplied statistic for one data role.
type Entry struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Role  string `json:"role"`
}

// Prompter returns further entries interactively. Next returns io.EOF when
// the user is done.
type Prompter interface {
	Next() (Entry, error)
}

// InputOptions collects the three ways of supplying fit statistics. They are
// applied in order: entries, prompter, then CSV rows.
type InputOptions struct {
	Entries  []Entry
	Prompter Prompter
	CSV      io.Reader
}

// InputFitStatistics fills a dmcas_fitstat document from user supplied values
// and writes it to dir, or returns it keyed by file name when dir is empty.
func InputFitStatistics(opts InputOptions, dir string) (*Document, map[string][]byte, error) {
	doc := NewFitStatDocument()
	AddEntries(doc, opts.Entries)

	if opts.Prompter != nil {
		for {
			e, err := opts.Prompter.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, nil, fmt.Errorf("read fit statistic: %w", err)
			}
			AddEntries(doc, []Entry{e})
		}
	}

	if opts.CSV != nil {
		entries, err := EntriesFromCSV(opts.CSV)
		if err != nil {
			return nil, nil, err
		}
		AddEntries(doc, entries)
	}

	data, err := doc.Marshal()
	if err != nil {
		return nil, nil, err
	}
	files, err := artifacts.WriteOrReturn(dir, artifacts.FitStatFile, data)
	if err != nil {
		return nil, nil, err
	}
	return doc, files, nil
}

// AddEntries sets each valid entry on the row of its data role. Unknown
// statistic names and out of range roles are skipped with a warning.
func AddEntries(doc *Document, entries []Entry) int {
	added := 0
	for _, e := range entries {
		name, ok := IsValidParameter(e.Name)
		if !ok {
			log.Warnf("%s is not a valid parameter and has been ignored", e.Name)
			continue
		}
		role, err := domain.ParseDataRole(e.Role)
		if err != nil {
			log.Warnf("%s is not a valid role value, expected 1, 2 or 3 or TRAIN, TEST or VALIDATE", e.Role)
			continue
		}
		row := partitionOffset(role.Partition(), 1)
		doc.Data[row].DataMap[name] = normalizeValue(e.Value)
		added++
	}
	return added
}

func normalizeValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return s
}

// EntriesFromCSV reads name,value,role rows. A first row whose value column
// is not numeric is treated as a header.
func EntriesFromCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read fit statistic csv: %w", err)
	}

	var entries []Entry
	for i, rec := range records {
		if i == 0 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
				continue
			}
		}
		entries = append(entries, Entry{Name: rec[0], Value: rec[1], Role: rec[2]})
	}
	return entries, nil
}

// LinePrompter asks for entries on out and reads answers from in.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
	// started is set after the first entry, when a continue question is due.
	started bool
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) ask(question string) (string, error) {
	fmt.Fprintln(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Next implements Prompter. Answering N to the continue question ends input.
func (p *LinePrompter) Next() (Entry, error) {
	if p.started {
		more, err := p.ask("More parameters? (Y/N)")
		if err != nil {
			return Entry{}, err
		}
		if strings.EqualFold(more, "N") {
			return Entry{}, io.EOF
		}
	}
	p.started = true

	name, err := p.ask("What is the parameter name?")
	if err != nil {
		return Entry{}, err
	}
	value, err := p.ask("What is the parameter's value?")
	if err != nil {
		return Entry{}, err
	}
	role, err := p.ask("Which data role is the parameter associated with?")
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: name, Value: value, Role: role}, nil
}
