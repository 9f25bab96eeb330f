// Package billing contains the financial document model of the print-job
// value chain: purchase orders flowing money downstream
// (Impact Direct → Bradford → JD Graphic), invoices flowing it back
// upstream, the margin calculator, and the append-only sync log that
// records cross-document propagation.
package billing
