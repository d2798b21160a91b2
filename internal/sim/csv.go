package sim

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"coin-dca/internal/model"
)

func WriteEventsCSV(path string, events []InvestmentEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"date",
		"contribution",
		"unit_price",
		"units_acquired",
		"cumulative_units",
		"cumulative_invested",
		"cumulative_value",
		"unrealized_gain",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, ev := range events {
		row := []string{
			strconv.Itoa(ev.Index),
			fmtDay(ev.Date),
			fmtDec(ev.Contribution),
			fmtDec(ev.UnitPrice),
			fmtDec(ev.UnitsAcquired),
			fmtDec(ev.CumulativeUnits),
			fmtDec(ev.CumulativeInvested),
			fmtDec(ev.CumulativeValue),
			fmtDec(ev.UnrealizedGain),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DayLayout)
}

func fmtDec(d decimal.Decimal) string {
	return d.StringFixed(8)
}
