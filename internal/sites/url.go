package sites

import (
	"net/url"
	"strings"

	"github.com/Fender1992/RemoteFlow/internal/entities"
)

// wellfoundRoleSlugs maps role keywords to wellfound path slugs. Order
// matters: the first keyword contained in the joined role string wins.
var wellfoundRoleSlugs = []struct {
	keyword string
	slug    string
}{
	{"software engineer", "software-engineer"},
	{"frontend developer", "frontend-developer"},
	{"backend developer", "backend-developer"},
	{"full stack developer", "full-stack-developer"},
	{"react developer", "react-developer"},
	{"python developer", "python-developer"},
	{"data scientist", "data-scientist"},
	{"product manager", "product-manager"},
	{"designer", "designer"},
	{"devops engineer", "devops-engineer"},
	{"developer", "developer"},
	{"engineer", "engineer"},
}

// BuildSearchURL maps a site and search parameters to that site's search URL.
// An unknown site yields an empty string; callers treat that as a site-level
// failure, not a crash.
func BuildSearchURL(site Site, params entities.SearchParams) string {
	switch site {
	case LinkedIn:
		return buildLinkedInURL(params)
	case Indeed:
		return buildIndeedURL(params)
	case Glassdoor:
		return buildGlassdoorURL(params)
	case Dice:
		return buildDiceURL(params)
	case Wellfound:
		return buildWellfoundURL(params)
	default:
		return ""
	}
}

func buildLinkedInURL(params entities.SearchParams) string {
	values := url.Values{}
	values.Set("keywords", params.JoinedRoles())
	values.Set("location", params.LocationOrDefault())
	values.Set("f_TPR", "r604800") // past week
	if params.Remote() {
		values.Set("f_WT", "2")
	}
	return "https://www.linkedin.com/jobs/search/?" + values.Encode()
}

func buildIndeedURL(params entities.SearchParams) string {
	values := url.Values{}
	values.Set("q", params.JoinedRoles())
	if params.Remote() {
		values.Set("l", "Remote")
		values.Set("sc", "0kf:attr(DSQF7);")
	} else {
		values.Set("l", params.LocationOrDefault())
	}
	values.Set("fromage", "7") // last 7 days
	return "https://www.indeed.com/jobs?" + values.Encode()
}

func buildGlassdoorURL(params entities.SearchParams) string {
	values := url.Values{}
	values.Set("sc.keyword", params.JoinedRoles())
	values.Set("locT", "N")
	values.Set("locId", "1")
	if params.Remote() {
		values.Set("remoteWorkType", "1")
	}
	return "https://www.glassdoor.com/Job/jobs.htm?" + values.Encode()
}

func buildDiceURL(params entities.SearchParams) string {
	values := url.Values{}
	values.Set("q", params.JoinedRoles())
	if params.Remote() {
		values.Set("location", "Remote")
		values.Set("filters.isRemote", "true")
	} else {
		values.Set("location", params.LocationOrDefault())
	}
	return "https://www.dice.com/jobs?" + values.Encode()
}

func buildWellfoundURL(params entities.SearchParams) string {
	roleSlug := "developer"
	keywords := strings.ToLower(params.JoinedRoles())
	for _, entry := range wellfoundRoleSlugs {
		if strings.Contains(keywords, entry.keyword) {
			roleSlug = entry.slug
			break
		}
	}

	searchURL := "https://wellfound.com/role/" + roleSlug
	if params.Remote() {
		searchURL += "?remote=true"
	}
	return searchURL
}
