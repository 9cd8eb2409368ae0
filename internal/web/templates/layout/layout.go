package layout

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData holds the fields every page renders in its chrome
type PageData struct {
	Title string
	Flash *FlashMessage
}
