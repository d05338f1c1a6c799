package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	PublicReviewsKey = "publicReviews"
	AverageRatingKey = "averageRating"
	TotalRatingsKey  = "totalRatings"
)

type Review struct {
	ID           int64  `json:"id"`
	UserName     string `json:"userName"`
	UserInitials string `json:"userInitials"`
	Rating       int    `json:"rating"`
	Feedback     string `json:"feedback"`
	Course       string `json:"course"`
	Date         string `json:"date"`
	UserID       string `json:"userId"`
}

// ReviewSummary is the public list plus the aggregate derived from it.
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"averageRating"`
	TotalRatings  int      `json:"totalRatings"`
}

// NewReview builds a review created at now. The id is the creation time in
// milliseconds, bumped past lastID so ids stay strictly increasing.
func NewReview(user *UserIdentity, rating int, feedback, course string, now time.Time, lastID int64) Review {
	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	return Review{
		ID:           id,
		UserName:     user.DisplayName(),
		UserInitials: user.Initials(),
		Rating:       rating,
		Feedback:     feedback,
		Course:       course,
		Date:         now.UTC().Format(time.RFC3339Nano),
		UserID:       user.userID(),
	}
}

// Summarize recomputes the aggregate from the full list.
func Summarize(reviews []Review) ReviewSummary {
	s := ReviewSummary{Reviews: reviews, TotalRatings: len(reviews)}
	if len(reviews) == 0 {
		s.Reviews = []Review{}
		return s
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	s.AverageRating = float64(sum) / float64(len(reviews))
	return s
}

// AppendReview returns a new list with r at the end; existing is not modified.
func AppendReview(existing []Review, r Review) ReviewSummary {
	out := make([]Review, 0, len(existing)+1)
	out = append(out, existing...)
	out = append(out, r)
	return Summarize(out)
}

func LastReviewID(reviews []Review) int64 {
	if len(reviews) == 0 {
		return 0
	}
	return reviews[len(reviews)-1].ID
}

func ParseReviews(raw string) ([]Review, error) {
	var reviews []Review
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		return nil, fmt.Errorf("%w: reviews: %w", ErrCorruptRecord, err)
	}
	return reviews, nil
}

// EncodeSummary renders the three stored values for the review keys.
func EncodeSummary(s ReviewSummary) (list, average, total string, err error) {
	reviews := s.Reviews
	if reviews == nil {
		reviews = []Review{}
	}
	data, err := json.Marshal(reviews)
	if err != nil {
		return "", "", "", err
	}
	return string(data),
		strconv.FormatFloat(s.AverageRating, 'f', -1, 64),
		strconv.Itoa(s.TotalRatings),
		nil
}
