package resend

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	resend "github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/nvbf/shuttle-club/pkg/tournament"
)

type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Service mails the organizer of a tournament.
type Service struct {
	emails  sender
	from    string
	hostURL string
}

// NewService returns a Service sending through Resend. Without an api key
// mails are logged and dropped.
func NewService(apiKey, from, hostURL string) *Service {
	s := &Service{from: from, hostURL: hostURL}
	if apiKey != "" {
		s.emails = resend.NewClient(apiKey).Emails
	}
	return s
}

// KnockoutDrawn tells the organizer the knockout bracket of a category is ready.
func (s *Service) KnockoutDrawn(ctx context.Context, t *tournament.Tournament, categoryID string) error {
	category, err := t.Category(categoryID)
	if err != nil {
		return err
	}
	data := knockoutMail{
		Tournament: t.Name,
		Category:   category.Name,
		URL:        s.tournamentURL(t.ID),
	}
	for _, m := range t.CategoryMatches(categoryID, tournament.StageKnockout) {
		if m.PreviousMatch1ID != "" || m.PreviousMatch2ID != "" || m.IsBye {
			continue
		}
		data.Pairings = append(data.Pairings, Pairing{
			Round: m.Round,
			Home:  entrantName(m.Participant1),
			Away:  entrantName(m.Participant2),
		})
	}
	subject := fmt.Sprintf("Knockout drawn: %s, %s", category.Name, t.Name)
	return s.send(ctx, t, subject, knockoutTemplate, data)
}

// TournamentCompleted sends the winner of every category.
func (s *Service) TournamentCompleted(ctx context.Context, t *tournament.Tournament) error {
	data := completedMail{Tournament: t.Name, URL: s.tournamentURL(t.ID)}
	for _, c := range t.Categories {
		data.Podiums = append(data.Podiums, Podium{
			Category: c.Name,
			Winner:   entrantName(tournament.Champion(t, c.ID)),
		})
	}
	subject := fmt.Sprintf("%s is completed", t.Name)
	return s.send(ctx, t, subject, completedTemplate, data)
}

func (s *Service) send(ctx context.Context, t *tournament.Tournament, subject string, tmpl *template.Template, data any) error {
	logger := log.Ctx(ctx).With().Str("tournament", t.ID).Str("subject", subject).Logger()
	if t.OrganizerEmail == "" {
		logger.Debug().Msg("no organizer email, skipping mail")
		return nil
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return xerrors.Errorf("render %q: %w", subject, err)
	}
	if s.emails == nil {
		logger.Info().Msg("mail disabled, dropping")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{t.OrganizerEmail},
		Subject: subject,
		Html:    body.String(),
	}
	sent, err := s.emails.Send(params)
	if err != nil {
		return xerrors.Errorf("send %q: %w", subject, err)
	}
	logger.Info().Str("mail_id", sent.Id).Msg("mail sent")
	return nil
}

func (s *Service) tournamentURL(id string) string {
	if s.hostURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/tournaments/%s", s.hostURL, id)
}

func entrantName(e *tournament.Entrant) string {
	if e == nil {
		return "TBD"
	}
	return e.DisplayName()
}

const layout = `<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f4f4f4;
            margin: 0;
            padding: 20px;
        }
        .container {
            background-color: #ffffff;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
        .button {
            display: block;
            width: 200px;
            height: 50px;
            margin: 20px auto;
            background-color: #007BFF;
            color: #ffffff;
            font-size: 16px;
            text-align: center;
            line-height: 50px;
            text-decoration: none;
            border-radius: 5px;
        }
    </style>
</head>
<body>
    <div class="container">
        {{template "content" .}}
        {{if .URL}}<a href="{{.URL}}" class="button">Open tournament</a>{{end}}
    </div>
</body>
</html>`

var knockoutTemplate = template.Must(template.Must(template.New("knockout").Parse(layout)).Parse(`
{{define "content"}}
<h2>{{.Category}}: knockout drawn</h2>
<p>The group stage of {{.Tournament}} is finished. First round:</p>
<ul>
{{range .Pairings}}    <li>{{.Round}}: {{.Home}} vs {{.Away}}</li>
{{end}}</ul>
{{end}}`))

var completedTemplate = template.Must(template.Must(template.New("completed").Parse(layout)).Parse(`
{{define "content"}}
<h2>{{.Tournament}} is completed</h2>
<ul>
{{range .Podiums}}    <li>{{.Category}}: {{.Winner}}</li>
{{end}}</ul>
{{end}}`))
