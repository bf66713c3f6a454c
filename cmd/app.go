package cmd

import (
	"net/http"
	"strings"

	"github.com/massimiliano76/lapi/config"
	lapi "github.com/massimiliano76/lapi/http"
	"github.com/massimiliano76/lapi/middleware"
	"github.com/massimiliano76/lapi/session"
	"github.com/massimiliano76/lapi/session/storage"
)

// HeaderUser names the header the demo application reads the user from.
const HeaderUser = "X-User"

func newRouter(cfg *config.RouterConfig, store storage.SessionStore) *lapi.Router {
	router := lapi.NewRouter(lapi.Options{Timer: cfg.Timer})

	router.Use(
		middleware.RequestLogger(),
		middleware.UserFromHeader(HeaderUser),
		middleware.Session(store),
	)

	router.Get("/health", health)
	router.Head("/health", health)

	router.Post("/echo", echo)
	router.Options("/echo", func(req *lapi.Request, res *lapi.Response) error {
		res.Header().Set("Allow", strings.Join([]string{http.MethodOptions, http.MethodPost}, ", "))
		res.WithStatus(http.StatusNoContent)
		return nil
	})

	router.Get("/whoami", whoami)
	router.Get("/session", visits)
	router.Delete("/session", func(req *lapi.Request, res *lapi.Response) error {
		if sess, ok := session.FromRequest(req); ok {
			sess.Clear()
		}
		res.WithStatus(http.StatusNoContent)
		return nil
	})

	return router
}

func health(req *lapi.Request, res *lapi.Response) error {
	res.WithText("OK")
	return nil
}

func echo(req *lapi.Request, res *lapi.Response) error {
	body, err := req.Body()
	if err != nil {
		return lapi.WrapError(http.StatusBadRequest, err)
	}

	contentType := req.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	res.WithBytes(contentType, body)
	return nil
}

func whoami(req *lapi.Request, res *lapi.Response) error {
	if err := middleware.RequireUser()(req, res); err != nil {
		return err
	}

	user, _ := middleware.User(req)
	return res.WithJSON(map[string]string{"user": user, "request_id": req.ID()})
}

func visits(req *lapi.Request, res *lapi.Response) error {
	sess, ok := session.FromRequest(req)
	if !ok {
		return lapi.NewError(http.StatusInternalServerError, "no session")
	}

	count := sess.Update("visits", func(value any, _ bool) any {
		count, _ := value.(int)
		return count + 1
	}).(int)

	return res.WithJSON(map[string]int{"visits": count})
}
