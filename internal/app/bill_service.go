package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"household_reminder_bot/internal/domain/bill"
	idb "household_reminder_bot/internal/infra/database"
	"household_reminder_bot/internal/infra/clock"

	"github.com/sirupsen/logrus"
)

// UrgentBill is one row of the urgency sweep.
type UrgentBill struct {
	BankName string
	Amount   string
	DueDate  string
	Urgency  bill.Urgency
	Days     int // calendar days until due, negative when overdue
}

// BillService normalizes incoming bill facts and answers "what is
// urgently due". Records are written by the bill-ingestion collaborator
// through Upsert and only ever read by the scheduler.
type BillService struct {
	repo   bill.Repository
	clk    clock.Clock
	logger *logrus.Entry
}

func NewBillService(repo bill.Repository, clk clock.Clock, logger *logrus.Entry) *BillService {
	return &BillService{repo: repo, clk: clk, logger: logger}
}

// Upsert validates and normalizes one extracted bill fact and writes it
// keyed by (canonical bank, month of due date). Malformed input is
// rejected with a structured reason and nothing is written.
func (s *BillService) Upsert(ctx context.Context, bankRaw, amountRaw, dueDateRaw, statementDateRaw string) (*bill.Record, error) {
	if strings.TrimSpace(bankRaw) == "" || strings.TrimSpace(amountRaw) == "" || strings.TrimSpace(dueDateRaw) == "" {
		return nil, ErrMissingBillField
	}

	amount, err := bill.NormalizeAmount(amountRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", bill.ErrBadAmount, amountRaw)
	}

	dueDate, ok := bill.NormalizeDate(dueDateRaw)
	if !ok || strings.Count(dueDate, "/") != 2 {
		return nil, fmt.Errorf("%w: %q", ErrBadBillDate, dueDateRaw)
	}

	statementDate := ""
	if d, ok := bill.NormalizeDate(statementDateRaw); ok {
		statementDate = d
	}

	rec := &bill.Record{
		BankName:      bill.NormalizeBankName(bankRaw),
		OriginalName:  strings.TrimSpace(bankRaw),
		Amount:        amount,
		DueDate:       dueDate,
		StatementDate: statementDate,
		MonthKey:      dueDate[:7], // YYYY/MM
		UpdatedAt:     s.clk.Now(),
	}
	rec.MonthKey = strings.ReplaceAll(rec.MonthKey, "/", "-")

	if err := s.repo.Upsert(ctx, rec); err != nil {
		s.logger.WithError(err).WithField("bank", rec.BankName).Error("Failed to upsert bill")
		return nil, fmt.Errorf("failed to upsert bill: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"bank":      rec.BankName,
		"month_key": rec.MonthKey,
		"due_date":  rec.DueDate,
	}).Info("Bill record upserted")
	return rec, nil
}

// SweepUrgent scans the fixed roster of tracked institutions and returns
// every bill whose due date is near or past, overdue first.
func (s *BillService) SweepUrgent(ctx context.Context) ([]UrgentBill, error) {
	today := s.clk.Now()
	out := make([]UrgentBill, 0, len(bill.TrackedBanks))

	for _, bank := range bill.TrackedBanks {
		rec, err := s.repo.LatestByBank(ctx, bank)
		if err != nil {
			if err == idb.ErrBillNotFound {
				continue
			}
			// One unreadable bank must not block the rest of the sweep.
			s.logger.WithError(err).WithField("bank", bank).Error("Sweep: failed to read bill")
			continue
		}
		urgency, days, err := bill.ClassifyUrgency(rec.DueDate, today)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"bank": bank, "due_date": rec.DueDate}).
				Error("Sweep: unparseable due date")
			continue
		}
		if urgency == bill.UrgencyNone {
			continue
		}
		out = append(out, UrgentBill{
			BankName: rec.BankName,
			Amount:   rec.Amount,
			DueDate:  rec.DueDate,
			Urgency:  urgency,
			Days:     days,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out, nil
}

// FormatSweep renders a sweep result as one push message, or "" when
// nothing is due.
func FormatSweep(items []UrgentBill) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("💳 信用卡繳費提醒\n")
	for _, it := range items {
		b.WriteString("\n")
		switch it.Urgency {
		case bill.UrgencyOverdue:
			b.WriteString(fmt.Sprintf("🔴 %s %s 已逾期 %d 天（期限 %s）", it.BankName, it.Amount, -it.Days, it.DueDate))
		case bill.UrgencyDueToday:
			b.WriteString(fmt.Sprintf("🟠 %s %s 今天到期！", it.BankName, it.Amount))
		case bill.UrgencyUrgent:
			b.WriteString(fmt.Sprintf("🟡 %s %s 還有 %d 天到期（%s）", it.BankName, it.Amount, it.Days, it.DueDate))
		case bill.UrgencyWarning:
			b.WriteString(fmt.Sprintf("🟢 %s %s 於 %s 到期", it.BankName, it.Amount, it.DueDate))
		}
	}
	return b.String()
}
