package cms

import "github.com/vlatan/advocacy-site/internal/models"

// Projection shared by every query.
// Records without a slug can't have a URL, so they're filtered out at the source.
const recordProjection = `{
	"slug": slug.current,
	_updatedAt,
	title,
	publishedAt
}`

const pastEventsQuery = `*[
	_type == "event" &&
	defined(slug.current) &&
	dateTime(startDate) < dateTime(now())
] | order(startDate desc) [0...$limit] ` + recordProjection

const upcomingEventsQuery = `*[
	_type == "event" &&
	defined(slug.current) &&
	dateTime(startDate) >= dateTime(now())
] | order(startDate asc) [0...$limit] ` + recordProjection

const newsPostsQuery = `*[
	_type == "post" &&
	defined(slug.current) &&
	!(_id in path("drafts.**"))
] | order(publishedAt desc) [0...$limit] ` + recordProjection

var queries = map[models.Collection]string{
	models.PastEvents:     pastEventsQuery,
	models.UpcomingEvents: upcomingEventsQuery,
	models.NewsPosts:      newsPostsQuery,
}
