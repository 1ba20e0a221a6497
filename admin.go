// admin.go - privacy-conscious admin console and visitor tracking
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jitendra-sudo/portfolio/internal/apperror"
	"github.com/jitendra-sudo/portfolio/internal/config"
	"github.com/jitendra-sudo/portfolio/internal/metrics"
	"github.com/jitendra-sudo/portfolio/internal/store"
)

const adminCookie = "admin_token"

type adminConsole struct {
	token     string
	salt      string
	username  string
	password  string
	retention time.Duration
	store     *store.Store
	log       *zap.Logger
}

// newAdminConsole generates a fresh admin token and hashing salt per process.
// Without configured credentials the console falls back to development
// defaults in debug mode and is locked otherwise.
func newAdminConsole(cfg *config.Config, st *store.Store, log *zap.Logger) (*adminConsole, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateToken()
	if err != nil {
		return nil, err
	}

	a := &adminConsole{
		token:     token,
		salt:      salt,
		username:  cfg.AdminUsername,
		password:  cfg.AdminPassword,
		retention: cfg.VisitorRetention,
		store:     st,
		log:       log,
	}

	if a.username == "" || a.password == "" {
		if cfg.Debug {
			a.username, a.password = "admin", "admin123"
			log.Warn("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
		} else {
			log.Warn("admin console locked: ADMIN_USERNAME and ADMIN_PASSWORD are not set")
		}
	}

	log.Info("admin access available at /admin/login")
	log.Info("privacy: visitor tracking enabled with hashed IP addresses")
	return a, nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hash derives a stable, salted, truncated identifier (IPs, session ids).
func (a *adminConsole) hash(value string) string {
	sum := sha256.Sum256([]byte(value + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminConsole) checkCredentials(username, password string) bool {
	if a.username == "" || a.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

func (a *adminConsole) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			// JSON callers get the error envelope, browsers the login page
			if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") || c.Request.Method != http.MethodGet {
				_ = c.Error(apperror.Unauthorized("Admin login required"))
			} else {
				c.Redirect(http.StatusFound, "/admin/login")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTracking records page views with hashed IPs. Static assets, admin
// pages and DNT requests are skipped; form traffic is not a page view.
func (a *adminConsole) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		metrics.PageViews.WithLabelValues(path).Inc()

		hashedIP, userAgent := a.hash(c.ClientIP()), c.GetHeader("User-Agent")
		go func() {
			if err := a.store.RecordVisit(context.Background(), hashedIP, userAgent, path); err != nil {
				a.log.Warn("error recording visitor", zap.Error(err))
			}
		}()
		c.Next()
	}
}

// purgeOldVisitors removes visitor records past the retention window.
func (a *adminConsole) purgeOldVisitors(ctx context.Context) (int64, error) {
	n, err := a.store.PurgeVisitorsBefore(ctx, time.Now().Add(-a.retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		a.log.Info("privacy cleanup removed old visitor records", zap.Int64("rows", n))
	}
	return n, nil
}

func (a *adminConsole) register(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":     "Privacy Policy",
			"retention": a.retention.String(),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !a.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			a.log.Warn("failed admin login attempt", zap.String("client", a.hash(c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", false, true)
		a.log.Info("admin login successful", zap.String("client", a.hash(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin", a.authMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			a.log.Error("error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			a.log.Error("error loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	admin.GET("/dispatches", func(c *gin.Context) {
		dispatches, err := a.store.RecentDispatches(c.Request.Context(), 200)
		if err != nil {
			a.log.Error("error loading dispatches", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load contact dispatches",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dispatches.html", gin.H{"dispatches": dispatches})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(apperror.Internal(err))
			return
		}
		apperror.Success(c, http.StatusOK, "ok", stats)
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			_ = c.Error(apperror.Internal(err))
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.log.Info("admin stats exported", zap.String("client", a.hash(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	admin.POST("/privacy/purge", func(c *gin.Context) {
		n, err := a.purgeOldVisitors(c.Request.Context())
		if err != nil {
			_ = c.Error(apperror.Internal(err))
			return
		}
		apperror.Success(c, http.StatusOK, "Privacy cleanup complete", gin.H{"removed": n})
	})
}
