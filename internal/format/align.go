package format

// Page arithmetic for region growth. Page sizes are not required to be a
// power of two, so these use division rather than masks.

// PagesFor returns the number of pages of pageSize bytes needed to hold n bytes.
//
// Example (pageSize 4096):
//
//	PagesFor(1)    = 1
//	PagesFor(4096) = 1
//	PagesFor(4097) = 2
func PagesFor(n, pageSize uint64) uint64 {
	if n == 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// AlignPage returns n rounded up to the next multiple of pageSize.
func AlignPage(n, pageSize uint64) uint64 {
	return PagesFor(n, pageSize) * pageSize
}
