package memory

import (
	"bank_ledger/internal/repository"
)

var (
	_ repository.CustomerRegistry = (*CustomerRegistry)(nil)
	_ repository.AccountRegistry  = (*AccountRegistry)(nil)
)
