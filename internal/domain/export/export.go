package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// Column headers and cell values of the results file. The file is consumed
// by the Russian-speaking group that runs the challenge, so the strings are
// fixed Russian text, not localized.
var resultsHeader = []string{
	"Позиция",
	"Имя",
	"Дата присоединения",
	"Стартовый вес",
	"Текущий вес",
	"Прогресс (%)",
	"Статус челленджа",
}

const (
	StatusActiveLabel    = "Активен"
	StatusCompletedLabel = "Завершен"
	noWeightPlaceholder  = "—"
	rowDateFormat        = "02.01.06"
)

// Row is one ranked participant in the results file.
type Row struct {
	Position      int
	Name          string
	JoinDate      time.Time
	StartWeight   float64
	CurrentWeight float64
	HasWeight     bool
	Percent       float64 // already rounded for display
	Active        bool
}

// Filename returns the download filename for an export generated on the
// given date.
func Filename(date time.Time) string {
	return fmt.Sprintf("challenge_results_%s.csv", date.Format("2006-01-02"))
}

// ToCSV renders the rows as a CSV document with the fixed header.
// POST: Returns one header line plus one line per row
func ToCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(resultsHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		status := StatusActiveLabel
		if !r.Active {
			status = StatusCompletedLabel
		}
		record := []string{
			strconv.Itoa(r.Position),
			r.Name,
			r.JoinDate.Format(rowDateFormat),
			formatWeight(r.StartWeight, r.StartWeight > 0),
			formatWeight(r.CurrentWeight, r.HasWeight),
			strconv.FormatFloat(r.Percent, 'f', 1, 64),
			status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatWeight(v float64, known bool) string {
	if !known {
		return noWeightPlaceholder
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
