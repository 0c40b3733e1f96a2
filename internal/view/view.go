// Package view renders HTML templates with a shared layout and carries the
// flash messages shown after redirects.
package view

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"invoiceapp/internal/format"
)

var (
	baseDir  string
	once     sync.Once
	devMode  bool
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

// SetDevMode disables the template cache so edits show up without a restart.
func SetDevMode(dev bool) { devMode = dev }

func detectBase() {
	candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
	for _, c := range candidates {
		if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
			baseDir = filepath.Clean(c)
			return
		}
	}
	baseDir = "templates"
}

// Funcs returns the shared template func map: money/date formatting and a
// couple of small helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":     format.Money,
		"rate":      format.Rate,
		"date":      format.Date,
		"shortdate": format.ShortDate,
		"year":      func() int { return time.Now().Year() },
		"add":       func(a, b int) int { return a + b },
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i
			}
			return s
		},
	}
}

// Render parses and executes a template file with the shared funcs, wrapping
// it in layout.html unless the file is a full document (print view). Pending
// flash messages are popped into the data as "Flashes".
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	once.Do(detectBase)
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Flashes"]; !exists {
		data["Flashes"] = PopFlashes(w, r)
	}

	key := name
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[key]
		tplCache.RUnlock()
		if ok && t != nil {
			return t.Execute(w, data)
		}
	}

	mainPath := filepath.Join(baseDir, name)
	contentBytes, err := os.ReadFile(mainPath)
	if err != nil {
		return err
	}

	var t *template.Template
	funcMap := Funcs()
	useLayout := !bytes.Contains(bytes.ToLower(contentBytes), []byte("<!doctype"))
	if useLayout {
		files := []string{filepath.Join(baseDir, "layout.html"), mainPath}
		if p := filepath.Join(baseDir, "partials", "header.html"); fileExists(p) {
			files = append(files, p)
		}
		t, err = template.New("layout.html").Funcs(funcMap).ParseFiles(files...)
	} else {
		t, err = template.New(filepath.Base(name)).Funcs(funcMap).ParseFiles(mainPath)
	}
	if err != nil {
		return err
	}

	if !devMode {
		tplCache.Lock()
		tplCache.m[key] = t
		tplCache.Unlock()
	}
	return t.Execute(w, data)
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
