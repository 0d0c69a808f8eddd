package sqlite_test

import (
	"testing"

	"github.com/shrimpsizemoose/encore/internal/store/storetest"
)

func TestSQLiteStore(t *testing.T) {
	storetest.RunConformance(t, storetest.New)
}
