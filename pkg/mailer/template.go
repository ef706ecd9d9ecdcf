package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var commentHTML = template.Must(template.New("comment").Parse(`<!doctype html>
<html>
  <body style="font-family:Arial,Helvetica,sans-serif;color:#222">
    <h2 style="margin-bottom:4px">New comment on your post</h2>
    <p>Hi {{.AuthorName}},</p>
    <p><strong>{{.CommenterName}}</strong> commented on
       <strong>{{.PostTitle}}</strong> in <em>{{.BoardName}}</em>:</p>
    <blockquote style="border-left:3px solid #ccc;margin:8px 0;padding:4px 12px;color:#555">
      {{.CommentExcerpt}}
    </blockquote>
  </body>
</html>`))

// Render builds the subject, text and HTML bodies for a comment notification.
func (j CommentNotifyJob) Render() (subject, text, html string, err error) {
	subject = fmt.Sprintf("New comment on \"%s\"", j.PostTitle)
	text = fmt.Sprintf("Hi %s,\n\n%s commented on \"%s\" in %s:\n\n%s\n",
		j.AuthorName, j.CommenterName, j.PostTitle, j.BoardName, j.CommentExcerpt)

	var buf bytes.Buffer
	if err = commentHTML.Execute(&buf, j); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}
