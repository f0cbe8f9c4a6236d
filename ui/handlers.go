package ui

import (
	"log"
	"net/http"

	"ccdviz/domain/report"
	"ccdviz/internal/errors"

	"github.com/gin-gonic/gin"
)

// sectionTab is one upload tab on the dashboard.
type sectionTab struct {
	Slug    string
	Section string
}

// handleLoginPage renders the credential form.
func (s *Server) handleLoginPage(c *gin.Context) {
	s.renderTemplate(c, "login.html", gin.H{})
}

// handleLogin checks the configured credential pair. There is no session:
// a correct pair renders the dashboard, a wrong one re-renders the form
// with an alert.
func (s *Server) handleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username != s.auth.Username || password != s.auth.Password {
		log.Printf("[Login] Rejected credentials for user %q", username)
		c.Status(http.StatusUnauthorized)
		s.renderTemplate(c, "login.html", gin.H{
			"Alert": "Login failed. Please check your credentials.",
		})
		return
	}

	tabs := make([]sectionTab, 0, len(report.Templates))
	// Fixed tab order: junior section first, matching the source layout.
	for _, slug := range []string{"junior", "senior"} {
		tabs = append(tabs, sectionTab{Slug: slug, Section: report.Templates[slug].Section})
	}

	s.renderTemplate(c, "dashboard.html", gin.H{
		"Tabs":     tabs,
		"Username": username,
		"Password": password,
	})
}

// handleHelp renders the password-recovery contact notice.
func (s *Server) handleHelp(c *gin.Context) {
	s.renderTemplate(c, "help.html", gin.H{"Body": s.helpHTML})
}

// buildRequest is the upload payload: the FileReader data-URL string plus
// the credential pair the dashboard carries forward. No session state is
// kept server-side.
type buildRequest struct {
	Contents string `json:"contents" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleBuildReport runs one report build for the uploaded workbook and
// responds with the shaped table and both chart figures.
func (s *Server) handleBuildReport(c *gin.Context) {
	slug := c.Param("section")
	tmpl, ok := report.Templates[slug]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report section", "code": errors.CodeInvalidInput})
		return
	}

	var req buildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": errors.CodeInvalidInput})
		return
	}

	if req.Username != s.auth.Username || req.Password != s.auth.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials", "code": errors.CodeUnauthorized})
		return
	}

	rep, err := s.builder.Build(req.Contents, tmpl)
	if err != nil {
		code := errors.GetCode(err)
		log.Printf("[handleBuildReport] FAILED - section=%s code=%s err=%v", slug, code, err)
		c.JSON(statusForCode(code), gin.H{"error": err.Error(), "code": code})
		return
	}

	c.JSON(http.StatusOK, buildResponse(rep))
}

// statusForCode maps build error kinds to HTTP statuses. All kinds are
// terminal for the invocation; none are retried server-side.
func statusForCode(code string) int {
	switch code {
	case errors.CodeDecodeError:
		return http.StatusBadRequest
	case errors.CodeParseError, errors.CodeSchemaError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// buildResponse shapes a report into the table and Plotly-style figure
// payloads the dashboard renders.
func buildResponse(rep *report.Report) gin.H {
	rows := make([][]interface{}, 0, len(rep.Records))
	for _, rec := range rep.Records {
		rows = append(rows, rec.TableRow())
	}

	barData := make([]gin.H, 0, len(rep.WeeklySeries))
	for _, series := range rep.WeeklySeries {
		barData = append(barData, gin.H{
			"x":       series.Names,
			"y":       series.Values,
			"type":    "bar",
			"name":    series.Week,
			"average": series.Average,
		})
	}

	labels := make([]string, 0, len(rep.StarCounts))
	values := make([]int, 0, len(rep.StarCounts))
	for _, sc := range rep.StarCounts {
		labels = append(labels, sc.Label)
		values = append(values, sc.Count)
	}

	return gin.H{
		"build_id": rep.BuildID,
		"section":  rep.Section,
		"columns":  report.TableColumns,
		"rows":     rows,
		"bar": gin.H{
			"data": barData,
			"layout": gin.H{
				"title": "Bar Graph: stars for Weeks 1 to 6",
				"xaxis": gin.H{"title": "Student Names", "tickangle": -45, "automargin": true},
				"yaxis": gin.H{"title": "stars in Hackerrank"},
			},
		},
		"pie": gin.H{
			"data": []gin.H{{
				"labels": labels,
				"values": values,
				"type":   "pie",
			}},
			"layout": gin.H{
				"title": "Pie Chart: Count of Students by Star Ratings",
			},
		},
	}
}
