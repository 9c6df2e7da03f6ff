// Package importer turns unstructured document text (typically extracted
// from an uploaded PDF) into milestone records. The parser is deliberately
// tolerant: malformed lines are skipped, never fatal to the batch.
package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/comptrack/backend/domain"
)

// Record is a parsed milestone candidate ready for insertion.
type Record struct {
	Title   string
	Status  domain.Status
	DueDate string
}

// Result reports what the parser accepted and dropped.
type Result struct {
	Records []Record
	Skipped int
}

// Parse scans text line by line. A line is accepted when, after whitespace
// splitting, it has at least 4 tokens: the first token is a row index and is
// dropped, the last two are status and due date, the middle tokens joined
// form the title. Lines with too few tokens or an unparsable date are skipped.
func Parse(r io.Reader) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rec, ok := parseLine(line)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// ParseString is a convenience wrapper over Parse for request bodies held in memory.
func ParseString(text string) Result {
	res, _ := Parse(strings.NewReader(text))
	return res
}

func parseLine(line string) (Record, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 4 {
		return Record{}, false
	}

	due, err := domain.ParseDueDate(tokens[len(tokens)-1])
	if err != nil {
		return Record{}, false
	}

	title := strings.Join(tokens[1:len(tokens)-2], " ")
	if title == "" {
		return Record{}, false
	}

	return Record{
		Title:   title,
		Status:  domain.ParseStatus(tokens[len(tokens)-2]),
		DueDate: due,
	}, true
}
