package postmark

// TrackLinks configures link tracking of a server or of a single message.
type TrackLinks string

const (
	TrackLinksNone        TrackLinks = "None"
	TrackLinksHtmlAndText TrackLinks = "HtmlAndText"
	TrackLinksHtmlOnly    TrackLinks = "HtmlOnly"
	TrackLinksTextOnly    TrackLinks = "TextOnly"
)
