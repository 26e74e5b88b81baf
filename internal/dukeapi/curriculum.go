package dukeapi

import (
	"context"
	"net/url"
)

const streamerBaseURL = "https://streamer.oit.duke.edu"

// SubjectCoursesURL builds the curriculum endpoint listing all courses for a
// subject. The subject is the full catalog label, e.g.
// "AIPI - Artificial Intelligence for Product Innovation".
func (c *Client) SubjectCoursesURL(subject string) string {
	return streamerBaseURL + "/curriculum/courses/subject/" +
		url.PathEscape(subject) + "?access_token=" + url.QueryEscape(c.accessToken)
}

// CourseDetailsURL builds the curriculum endpoint for a single course
// offering identified by course id and offer number.
func (c *Client) CourseDetailsURL(courseID, courseOfferNumber string) string {
	return streamerBaseURL + "/curriculum/courses/crse_id/" + url.PathEscape(courseID) +
		"/crse_offer_nbr/" + url.PathEscape(courseOfferNumber) +
		"?access_token=" + url.QueryEscape(c.accessToken)
}

// FetchSubjectCourses fetches the course list for a subject.
func (c *Client) FetchSubjectCourses(ctx context.Context, subject string) ([]byte, error) {
	return c.Get(ctx, c.SubjectCoursesURL(subject), "curriculum")
}

// FetchCourseDetails fetches details for one course offering.
func (c *Client) FetchCourseDetails(ctx context.Context, courseID, courseOfferNumber string) ([]byte, error) {
	return c.Get(ctx, c.CourseDetailsURL(courseID, courseOfferNumber), "course_details")
}
