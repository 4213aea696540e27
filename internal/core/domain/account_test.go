package domain_test

import (
	"testing"

	"github.com/qardhos/microfin_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountNature_BalanceOf(t *testing.T) {
	tests := []struct {
		name   string
		nature domain.AccountNature
		debit  decimal.Decimal
		credit decimal.Decimal
		want   decimal.Decimal
	}{
		{
			name:   "debit nature, net debit activity",
			nature: domain.NatureDebit,
			debit:  decimal.NewFromInt(150),
			credit: decimal.NewFromInt(50),
			want:   decimal.NewFromInt(100),
		},
		{
			name:   "debit nature, net credit activity goes negative",
			nature: domain.NatureDebit,
			debit:  decimal.NewFromInt(20),
			credit: decimal.NewFromInt(70),
			want:   decimal.NewFromInt(-50),
		},
		{
			name:   "credit nature, net credit activity",
			nature: domain.NatureCredit,
			debit:  decimal.NewFromInt(25),
			credit: decimal.NewFromInt(100),
			want:   decimal.NewFromInt(75),
		},
		{
			name:   "credit nature, net debit activity goes negative",
			nature: domain.NatureCredit,
			debit:  decimal.NewFromInt(100),
			credit: decimal.NewFromInt(40),
			want:   decimal.NewFromInt(-60),
		},
		{
			name:   "zero activity",
			nature: domain.NatureDebit,
			debit:  decimal.Zero,
			credit: decimal.Zero,
			want:   decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.nature.BalanceOf(tt.debit, tt.credit)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestJournalHeader_IsZakat(t *testing.T) {
	zakat := domain.JournalHeader{SourceType: domain.SourceZakat}
	assert.True(t, zakat.IsZakat())

	manual := domain.JournalHeader{SourceType: domain.SourceManual}
	assert.False(t, manual.IsZakat())
}
