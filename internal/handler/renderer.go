// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer は埋め込みHTMLテンプレートのレンダリングを提供する。
// テンプレートは起動時に一度だけパースされる。
// html/templateのコンテキストエスケープにより、メッセージ本文や
// チャンネル名に含まれる文字はHTMLとして解釈されない。
type Renderer struct {
	templates *template.Template
}

// NewRenderer は埋め込みテンプレートをパースしてRendererを生成する。
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render は指定した名前のテンプレートをレンダリングする。
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return nil
}
