package configwatcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quizgen_backend/internal/config"
)

const watcherTestConfig = `server:
  port: "8080"
  mode: debug
jwt:
  secret: watcher-test-secret
  expire_hours: 1
`

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(watcherTestConfig), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *config.Config, 1)
	go WatchConfig(path, nil, func(cfg interface{}) {
		if c, ok := cfg.(*config.Config); ok {
			select {
			case reloaded <- c:
			default:
			}
		}
	})

	// 等待 watcher 就绪后再触发写入
	time.Sleep(200 * time.Millisecond)

	updated := strings.Replace(watcherTestConfig, "8080", "9090", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}
	// 连续写入两次，确认防抖之后回调仍会触发
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Server.Port != "9090" {
			t.Errorf("reloaded port = %q, want %q", cfg.Server.Port, "9090")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config reload callback did not fire after file write")
	}
}
