package domain

// Page identifies one social-media page. Identity is PageID.
type Page struct {
	PageID   string `json:"page_id" validate:"required"`
	PageName string `json:"page_name" validate:"required"`
}

// NewPage creates a page value.
func NewPage(pageID, pageName string) Page {
	return Page{PageID: pageID, PageName: pageName}
}
