package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Fender1992/RemoteFlow/internal/entities"
	"github.com/Fender1992/RemoteFlow/internal/sites"
)

const (
	maxTitleLength   = 500
	maxCompanyLength = 255
	maxURLLength     = 2000

	// Salary values below this are read as hourly rates and annualized
	// assuming 2080 working hours per year.
	hourlyThreshold  = 500
	workHoursPerYear = 2080

	defaultCurrency        = "USD"
	defaultExperienceLevel = "any"
)

// NormalizeJob converts one untrusted extracted listing into the canonical
// store schema. It is total: absent or malformed fields degrade to defaults,
// never to an error.
func NormalizeJob(raw entities.RawJob, source sites.Site) entities.Job {

	salaryMin, salaryMax := ParseSalary(raw.Salary)

	description := raw.DescriptionPreview
	if description == "" {
		description = raw.Description
	}

	location := raw.Location
	if location == "" {
		location = "Remote"
	}
	var timezone *string
	if strings.Contains(strings.ToLower(location), "remote") {
		global := "global"
		timezone = &global
	}

	return entities.Job{
		Title:           truncate(raw.Title, maxTitleLength),
		Company:         truncate(raw.Company, maxCompanyLength),
		Description:     description,
		SalaryMin:       salaryMin,
		SalaryMax:       salaryMax,
		Currency:        defaultCurrency,
		JobType:         normalizeJobType(raw.EmploymentType),
		Timezone:        timezone,
		TechStack:       "",
		ExperienceLevel: defaultExperienceLevel,
		URL:             truncate(raw.URL, maxURLLength),
		Source:          string(source),
		PostedDate:      ParsePostedDate(raw.PostedDate),
		FetchedAt:       time.Now().UTC(),
		IsActive:        true,
	}
}

func normalizeJobType(employmentType string) entities.JobType {

	normalized := strings.ReplaceAll(strings.ToLower(employmentType), " ", "_")

	switch normalized {
	case "full_time", "full-time":
		return entities.JobTypeFullTime
	case "part_time", "part-time":
		return entities.JobTypePartTime
	case "contract":
		return entities.JobTypeContract
	case "freelance":
		return entities.JobTypeFreelance
	default:
		return entities.JobTypeFullTime
	}
}

// truncate bounds by character count, never splitting a multi-byte rune.
func truncate(value string, maxLength int) string {
	runes := []rune(value)
	if len(runes) > maxLength {
		return string(runes[:maxLength])
	}
	return value
}

var salaryNumberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseSalary extracts annualized min and max values from free-form salary
// text. One number means min = max; no numbers means both absent.
func ParseSalary(salary string) (*int, *int) {

	if salary == "" {
		return nil, nil
	}

	replacer := strings.NewReplacer("$", "", ",", "", "/year", "", "/yr", "", "k", "000", "K", "000")
	salary = replacer.Replace(salary)

	numbers := salaryNumberPattern.FindAllString(salary, -1)
	if len(numbers) == 0 {
		return nil, nil
	}

	rawMin, err := strconv.ParseFloat(numbers[0], 64)
	if err != nil {
		return nil, nil
	}

	rawMax := rawMin
	if len(numbers) >= 2 {
		rawMax, err = strconv.ParseFloat(numbers[1], 64)
		if err != nil {
			return nil, nil
		}
	}

	minValue, maxValue := int(rawMin), int(rawMax)

	// Hourly-vs-annual is decided once, on the lower bound; both bounds scale
	// together so a range straddling the threshold keeps min <= max.
	if minValue < hourlyThreshold {
		minValue *= workHoursPerYear
		maxValue *= workHoursPerYear
	}
	return &minValue, &maxValue
}

var relativeDatePattern = regexp.MustCompile(`(\d+)\s*(minute|hour|day|week|month)s?\s*ago`)

// ParsePostedDate resolves coarse relative date text ("3 days ago",
// "yesterday") to an absolute UTC timestamp. Months approximate to 30 days.
// Unrecognized text yields nil.
func ParsePostedDate(date string) *time.Time {

	if date == "" {
		return nil
	}

	date = strings.ToLower(date)
	now := time.Now().UTC()

	if match := relativeDatePattern.FindStringSubmatch(date); match != nil {
		amount, err := strconv.Atoi(match[1])
		if err != nil {
			return nil
		}

		var duration time.Duration
		switch match[2] {
		case "minute":
			duration = time.Duration(amount) * time.Minute
		case "hour":
			duration = time.Duration(amount) * time.Hour
		case "day":
			duration = time.Duration(amount) * 24 * time.Hour
		case "week":
			duration = time.Duration(amount) * 7 * 24 * time.Hour
		case "month":
			duration = time.Duration(amount) * 30 * 24 * time.Hour
		}

		posted := now.Add(-duration)
		return &posted
	}

	if strings.Contains(date, "today") || strings.Contains(date, "just posted") {
		return &now
	}

	if strings.Contains(date, "yesterday") {
		posted := now.Add(-24 * time.Hour)
		return &posted
	}

	return nil
}
