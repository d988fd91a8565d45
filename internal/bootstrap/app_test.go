package bootstrap

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/floodfill"
	httpHandler "github.com/acsiqueiraGit/FloodFillBackend/internal/handler/http"
	wsHandler "github.com/acsiqueiraGit/FloodFillBackend/internal/handler/websocket"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/hub"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/infra/persistence/memory"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/service"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	actionRepo := memory.NewPaintActionRepository()
	svc := service.NewFloodFillService(
		memory.NewFloodFillRepository(memory.SampleFloodFill()),
		actionRepo,
		memory.NewGridLocker(time.Second),
		service.NewRepositoryRecorder(actionRepo),
		floodfill.NewGridFactory(nil),
		0,
	)
	cfg := &Config{CORSAllowedOrigin: "http://example.test", KeyPrefix: "ff:"}
	watch := wsHandler.NewWatchHandler(hub.NewHub(nil, cfg.KeyPrefix), svc, cfg.CORSAllowedOrigin)
	return NewRouter(cfg, log, httpHandler.NewFloodFillHandler(svc), watch, nil)
}

func TestRouter_Ping(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.Equal(t, "http://example.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Preflight(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine(t).ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/floodfills", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "userid")
}

func TestRouter_SampleSeed(t *testing.T) {
	r := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/floodfills/1", nil)
	req.Header.Set("userid", "Antonio")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Sample test panel","sizeX":1,"sizeY":1,"colors":["red","blue","yellow"],"pixels":[{"x":1,"y":1,"color":"red"}]}`, w.Body.String())

	// 没有 userid 请求头
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/floodfills/1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
