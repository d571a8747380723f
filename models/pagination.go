package models

const defaultPageLimit = 20
const maxPageLimit = 100

// NormalizePage clamps page/limit to sane bounds for list queries.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func pageOffset(page, limit int) int {
	page, limit = NormalizePage(page, limit)
	return (page - 1) * limit
}
