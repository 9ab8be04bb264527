package portfolio

import (
	"bytes"
	"errors"
	"html/template"
	"strings"

	"github.com/go-playground/validator/v10"
)

var contactTemplate = template.Must(template.New("contact").Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

type contactView struct {
	Name    string
	Email   string
	Subject string
	Message template.HTML
}

func validateContact(v *validator.Validate, msg ContactMessage) error {
	err := v.Struct(msg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return &ValidationError{Fields: fields}
}

// contactSubject strips line breaks so the subject cannot inject headers.
func contactSubject(subject string) string {
	subject = strings.NewReplacer("\r", " ", "\n", " ").Replace(subject)
	return "Portfolio Contact: " + strings.TrimSpace(subject)
}

func renderContactHTML(msg ContactMessage) (string, error) {
	escaped := template.HTMLEscapeString(msg.Message)
	escaped = strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "\n"), "\n", "<br>")

	var buf bytes.Buffer
	err := contactTemplate.Execute(&buf, contactView{
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Message: template.HTML(escaped),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
