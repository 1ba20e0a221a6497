package main

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jitendra-sudo/portfolio/internal/apperror"
	"github.com/jitendra-sudo/portfolio/internal/config"
	"github.com/jitendra-sudo/portfolio/internal/contact"
	"github.com/jitendra-sudo/portfolio/internal/metrics"
	"github.com/jitendra-sudo/portfolio/internal/site"
)

const (
	sessionCookie = "portfolio_session"
	sessionKey    = "session"

	sentNotice   = "Thank you for your message! I'll get back to you soon."
	failedNotice = "Sorry, there was an error sending your message. Please try again later."
	busyNotice   = "Your previous message is still being sent. Please wait a moment."
)

type server struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions *contact.Sessions
	admin    *adminConsole
}

// contactView is what the contact form partial renders.
type contactView struct {
	Form    contact.Submission
	Sending bool
	Notice  string
	Error   string
}

type pageView struct {
	Owner    Profile
	About    string
	Stats    []Stat
	Skills   []SkillGroup
	Projects []Project
	Settings site.Settings
	Contact  contactView
}

func (s *server) router() (*gin.Engine, error) {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		requestID(),
		ginzap.Ginzap(s.log, time.RFC3339, true),
		ginzap.RecoveryWithZap(s.log, true),
		apperror.ErrorHandler(s.log),
	)
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	s.admin.register(r)

	pages := r.Group("/", s.admin.visitorTracking(), sessionMiddleware(s.sessions))
	pages.GET("/", s.home)
	pages.GET("/contact-form", s.contactForm)
	pages.POST("/contact/field", s.updateField)
	pages.POST("/contact", s.submitContact)
	pages.POST("/contact/clear", s.clearContact)
	pages.POST("/api/contact", s.submitContactJSON)
	pages.POST("/theme", s.toggleTheme)

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Page not found"))
	})

	return r, nil
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("RequestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func sessionMiddleware(sessions *contact.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		sess := sessions.Open(id)
		if sess.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
		}
		metrics.SessionsActive.Set(float64(sessions.Len()))
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *contact.Session {
	return c.MustGet(sessionKey).(*contact.Session)
}

func settingsFrom(c *gin.Context) site.Settings {
	value, _ := c.Cookie(site.ThemeCookie)
	return site.FromCookie(value)
}

func viewOf(sess *contact.Session) contactView {
	return contactView{
		Form:    sess.Form.Snapshot(),
		Sending: sess.Dispatcher.Sending(),
	}
}

func (s *server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageView{
		Owner:    Owner,
		About:    AboutMe,
		Stats:    Stats,
		Skills:   Skills,
		Projects: Projects,
		Settings: settingsFrom(c),
		Contact:  viewOf(currentSession(c)),
	})
}

// HTMX Contact form endpoint - returns just the form HTML
func (s *server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", viewOf(currentSession(c)))
}

// updateField applies one keystroke-level edit to the session's form.
func (s *server) updateField(c *gin.Context) {
	field, ok := contact.ParseField(c.PostForm("field"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	value, ok := c.GetPostForm("value")
	if !ok {
		value = c.PostForm(string(field))
	}

	currentSession(c).Form.Update(field, value)
	c.Status(http.StatusNoContent)
}

func postedSubmission(c *gin.Context, sess *contact.Session) contact.Submission {
	rec := sess.Form.Snapshot()
	if v, ok := c.GetPostForm(string(contact.FieldName)); ok {
		rec.Name = v
	}
	if v, ok := c.GetPostForm(string(contact.FieldEmail)); ok {
		rec.Email = v
	}
	if v, ok := c.GetPostForm(string(contact.FieldMessage)); ok {
		rec.Message = v
	}
	return rec
}

// Handle contact form submission with HTMX
func (s *server) submitContact(c *gin.Context) {
	sess := currentSession(c)
	posted := postedSubmission(c, sess)

	res := sess.Dispatcher.SubmitRecord(c.Request.Context(), sess.Form, posted)

	view := viewOf(sess)
	status := http.StatusOK
	switch res.Outcome {
	case contact.OutcomeSent:
		view.Notice = sentNotice
	case contact.OutcomeFailed:
		view.Error = failedNotice
	case contact.OutcomeRejected:
		// echo what was typed; the session keeps the record in flight
		view.Form = posted
		status = http.StatusConflict
		view.Error = busyNotice
		// htmx only swaps 2xx by default
		c.Header("HX-Reswap", "outerHTML")
	}

	c.HTML(status, "contact.html", view)
}

func (s *server) clearContact(c *gin.Context) {
	sess := currentSession(c)
	sess.Form.Reset()
	c.HTML(http.StatusOK, "contact.html", viewOf(sess))
}

func (s *server) submitContactJSON(c *gin.Context) {
	var req contact.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	sess := currentSession(c)
	res := sess.Dispatcher.SubmitRecord(c.Request.Context(), sess.Form, req)

	switch res.Outcome {
	case contact.OutcomeSent:
		apperror.Success(c, http.StatusOK, "Your message has been sent successfully!", gin.H{
			"provider": res.Provider,
		})
	case contact.OutcomeSkipped:
		_ = c.Error(apperror.Unprocessable("Name, email and message are required"))
	case contact.OutcomeRejected:
		_ = c.Error(apperror.Conflict(busyNotice, res.Err))
	default:
		_ = c.Error(apperror.BadGateway("Failed to send message. Please try again later.", res.Err))
	}
}

func (s *server) toggleTheme(c *gin.Context) {
	settings := settingsFrom(c).Toggle()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(site.ThemeCookie, settings.CookieValue(), 365*24*3600, "/", "", false, false)

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
