package service

import "fmt"

// Human-readable record codes. The numeric part comes from a store-backed
// sequence so codes never repeat; patient and invoice codes reset their
// counter each calendar year.

func formatPatientRecordID(year int, seq int64) string {
	return fmt.Sprintf("JHMS-%d-%05d", year, seq)
}

func formatStaffRecordID(seq int64) string {
	return fmt.Sprintf("EMP-%05d", seq)
}

func formatInvoiceRecordID(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%07d", year, seq)
}
