package sites

// Site identifies one of the supported job boards. The set is closed: adding
// a board means adding a constant, a Config entry, and a BuildSearchURL case.
type Site string

const (
	LinkedIn  Site = "linkedin"
	Indeed    Site = "indeed"
	Glassdoor Site = "glassdoor"
	Dice      Site = "dice"
	Wellfound Site = "wellfound"
)

// Config holds the per-site extraction settings: what the model is told about
// the board and how many jobs one run may collect.
type Config struct {
	Name         string
	MaxJobs      int
	SystemPrompt string
}

// DefaultConfigs returns the built-in site table. Callers receive their own
// copy so the table stays immutable after process start.
func DefaultConfigs() map[Site]Config {
	return map[Site]Config{
		LinkedIn: {
			Name:    "LinkedIn",
			MaxJobs: 25,
			SystemPrompt: `You are a job search assistant browsing LinkedIn Jobs. Extract job listing data from what you see.

Key behaviors:
- If you see a login/signup modal, look for an X or Close button to dismiss it
- Job cards appear on the left panel - each shows title, company, location
- Scroll down to see more job listings
- Extract data directly from visible job cards without clicking into each one`,
		},
		Indeed: {
			Name:    "Indeed",
			MaxJobs: 25,
			SystemPrompt: `You are a job search assistant browsing Indeed job listings. Extract job data from visible listings.

Key behaviors:
- Jobs are listed in cards with title, company, location, salary visible
- Note if salary is "Estimated" or "Employer provided"
- Look for badges like "Urgently hiring", "Responsive employer"
- Scroll to see more listings`,
		},
		Glassdoor: {
			Name:    "Glassdoor",
			MaxJobs: 20,
			SystemPrompt: `You are a job search assistant browsing Glassdoor job listings. Extract job data from visible listings.

Key behaviors:
- May show signup/login modal - dismiss by clicking X or Close
- Company ratings (stars) are valuable - extract if visible
- Salary ranges are often shown as estimates
- Scroll to load more jobs`,
		},
		Dice: {
			Name:    "Dice",
			MaxJobs: 25,
			SystemPrompt: `You are a job search assistant browsing Dice, a tech-focused job board. Extract job data from visible listings.

Key behaviors:
- Dice is tech-focused - most jobs have detailed skill requirements
- Jobs are listed in cards with key details visible
- The site is generally clean with minimal pop-ups`,
		},
		Wellfound: {
			Name:    "Wellfound",
			MaxJobs: 20,
			SystemPrompt: `You are a job search assistant browsing Wellfound (formerly AngelList Talent). Extract job data from visible listings.

Key behaviors:
- Startup-focused - jobs often include equity information
- Company cards show funding stage and size
- Salary ranges are usually displayed
- The site uses infinite scroll`,
		},
	}
}
