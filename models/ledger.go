package models

import (
	// Go Internal Packages
	"time"

	// Local Packages
	utils "pay-broker/utils"
)

// LedgerDateFormat is the layout of the stored creation date.
const LedgerDateFormat = "2006-01-02 15:04:05"

// Transaction is one ledger record: the authority issued by the gateway and
// what it pays for.
type Transaction struct {
	Authority   string
	ClientNames []string
	Amount      uint64
	Referrer    string
	CreatedAt   time.Time
}

type MongoTransaction struct {
	Authority string `bson:"_id"`
	Name      string `bson:"name"`
	Amount    int64  `bson:"amount"`
	Referrer  string `bson:"referrer"`
	Date      string `bson:"date"`
}

// Transform converts the transaction to its stored form. Names are kept
// comma-joined in their original order.
func (t *Transaction) Transform() MongoTransaction {
	return MongoTransaction{
		Authority: t.Authority,
		Name:      utils.JoinNames(t.ClientNames),
		Amount:    int64(t.Amount),
		Referrer:  t.Referrer,
		Date:      t.CreatedAt.UTC().Format(LedgerDateFormat),
	}
}

func (m *MongoTransaction) Transaction() Transaction {
	createdAt, _ := time.Parse(LedgerDateFormat, m.Date)
	return Transaction{
		Authority:   m.Authority,
		ClientNames: utils.SplitNames(m.Name),
		Amount:      uint64(m.Amount),
		Referrer:    m.Referrer,
		CreatedAt:   createdAt,
	}
}
