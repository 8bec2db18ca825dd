package dto

type Page string

const (
	PageLogin            Page = "login"
	PageSignUp           Page = "signup"
	PageRoleChooser      Page = "roleChooser"
	PageFanDashboard     Page = "fanDashboard"
	PageCreatorDashboard Page = "creatorDashboard"
	PageCreateClub       Page = "createClub"
	PageClubManagement   Page = "clubManagement"
	PageClubPublicView   Page = "clubPublicView"
	PageFanProfile       Page = "fanProfile"
	PagePostDetail       Page = "postDetail"
)

var pages = map[Page]struct{}{
	PageLogin:            {},
	PageSignUp:           {},
	PageRoleChooser:      {},
	PageFanDashboard:     {},
	PageCreatorDashboard: {},
	PageCreateClub:       {},
	PageClubManagement:   {},
	PageClubPublicView:   {},
	PageFanProfile:       {},
	PagePostDetail:       {},
}

func (p Page) Valid() bool {
	_, ok := pages[p]
	return ok
}

// HomePage is the landing page for a role.
func HomePage(role Role) Page {
	if role == RoleCreator {
		return PageCreatorDashboard
	}
	return PageFanDashboard
}

// PageContext identifies the club and post a page is about. Zero means absent.
type PageContext struct {
	ClubID int64
	PostID int64
}

type NavEntry struct {
	Page    Page
	Context PageContext
}

type Modal struct {
	Title   string
	Message string
}

// View is what the view layer renders.
type View struct {
	Page        Page
	Context     PageContext
	CurrentUser *User
	Modal       *Modal
	CanGoBack   bool
}
