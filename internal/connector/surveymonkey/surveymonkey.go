// Package surveymonkey implements the SurveySource interface over the
// SurveyMonkey v3 REST API.
package surveymonkey

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/altum-analytics/uidmatch/internal/config"
	"github.com/altum-analytics/uidmatch/internal/connector"
	"github.com/altum-analytics/uidmatch/internal/connector/httpclient"
	"github.com/altum-analytics/uidmatch/internal/model"
)

const (
	defaultEndpoint = "https://api.surveymonkey.com"
	perPage         = 100

	// requestDelay spaces survey detail fetches to stay inside the API's
	// per-minute quota.
	requestDelay = 500 * time.Millisecond
)

var errNoToken = errors.New("surveymonkey: access token not configured")

func init() {
	connector.RegisterSurveySource("surveymonkey", func(cfg config.SurveyConfig) (connector.SurveySource, error) {
		return New(cfg)
	})
}

// Source lists surveys and flattens their detail structures into question
// and choice rows.
type Source struct {
	client *httpclient.Client
	delay  time.Duration
}

// New creates a Source from survey configuration.
func New(cfg config.SurveyConfig) (*Source, error) {
	if cfg.Token == "" {
		return nil, errNoToken
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Source{
		client: httpclient.New(endpoint, cfg.Token),
		delay:  requestDelay,
	}, nil
}

type surveyList struct {
	Data []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"data"`
	Total int `json:"total"`
}

type surveyDetails struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Pages []struct {
		Questions []detailQuestion `json:"questions"`
	} `json:"pages"`
}

type detailQuestion struct {
	ID       string `json:"id"`
	Family   string `json:"family"`
	Headings []struct {
		Heading string `json:"heading"`
	} `json:"headings"`
	Answers struct {
		Choices []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"choices"`
		Rows []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"rows"`
	} `json:"answers"`
}

// ListSurveys pages through /v3/surveys until the reported total is reached.
func (s *Source) ListSurveys(ctx context.Context) ([]model.Survey, error) {
	var surveys []model.Survey
	for page := 1; ; page++ {
		q := url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(perPage)},
		}
		var list surveyList
		if err := s.client.GetJSON(ctx, "/v3/surveys", q, &list); err != nil {
			return nil, fmt.Errorf("surveymonkey: list surveys page %d: %w", page, err)
		}
		for _, sv := range list.Data {
			surveys = append(surveys, model.Survey{ID: sv.ID, Title: sv.Title})
		}
		if len(list.Data) == 0 || len(surveys) >= list.Total {
			return surveys, nil
		}
	}
}

// Questions fetches one survey's details and flattens every question into a
// stem row plus one row per answer choice and matrix row.
func (s *Source) Questions(ctx context.Context, survey model.Survey) ([]model.Question, error) {
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	var details surveyDetails
	path := "/v3/surveys/" + url.PathEscape(survey.ID) + "/details"
	if err := s.client.GetJSON(ctx, path, nil, &details); err != nil {
		return nil, fmt.Errorf("surveymonkey: survey %s details: %w", survey.ID, err)
	}

	title := details.Title
	if title == "" {
		title = survey.Title
	}

	var questions []model.Question
	for _, page := range details.Pages {
		for _, dq := range page.Questions {
			heading := ""
			if len(dq.Headings) > 0 {
				heading = dq.Headings[0].Heading
			}
			if heading == "" {
				continue
			}
			questions = append(questions, model.Question{
				ID:          dq.ID,
				Text:        heading,
				SurveyID:    survey.ID,
				SurveyTitle: title,
			})
			for _, row := range dq.Answers.Rows {
				if row.Text == "" {
					continue
				}
				questions = append(questions, model.Question{
					ID:          dq.ID + ":" + row.ID,
					Text:        row.Text,
					IsChoice:    true,
					SurveyID:    survey.ID,
					SurveyTitle: title,
				})
			}
			for _, choice := range dq.Answers.Choices {
				if choice.Text == "" {
					continue
				}
				questions = append(questions, model.Question{
					ID:          dq.ID + ":" + choice.ID,
					Text:        choice.Text,
					IsChoice:    true,
					SurveyID:    survey.ID,
					SurveyTitle: title,
				})
			}
		}
	}
	return questions, nil
}

// Check calls /v3/users/me and reports the connected account.
func (s *Source) Check(ctx context.Context) (string, error) {
	var me struct {
		Username string `json:"username"`
	}
	if err := s.client.GetJSON(ctx, "/v3/users/me", nil, &me); err != nil {
		return "", fmt.Errorf("surveymonkey: check connection: %w", err)
	}
	if me.Username == "" {
		me.Username = "unknown"
	}
	return "connected as " + me.Username, nil
}
