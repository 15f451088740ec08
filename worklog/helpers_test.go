package worklog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/warp/worklog/worklog"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// testRecord builds a recomputed record for fixtures.
func testRecord(t *testing.T, id int64, date, employee string, minutes int, income, tip string) worklog.Record {
	t.Helper()
	r := worklog.Record{
		ID:              worklog.RecordID(id),
		Date:            date,
		Employee:        employee,
		Client:          "Client",
		Service:         worklog.ServiceMassage,
		DurationMinutes: minutes,
		ServiceIncome:   dec(t, income),
		Tip:             dec(t, tip),
	}
	r.Recompute()
	return r
}
