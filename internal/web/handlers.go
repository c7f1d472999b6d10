package web

import (
	"html/template"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/stickerpack/internal/editor"
	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/logger"
	"github.com/hpungsan/stickerpack/internal/ops"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/vault"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	vault    *vault.Vault
	store    settings.Store
	renderer *Renderer
	sessions *sessionTable
	markdown goldmark.Markdown
}

// HandlePicker handles GET /picker: open a picker session.
// The index is built once here; folder errors end the session and are shown
// in place of the results.
func (h *Handlers) HandlePicker(w http.ResponseWriter, r *http.Request) {
	target, err := parseTarget(r.URL.Query())
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := PickerPageData{
		PageData: h.renderer.page("Insert sticker", "picker"),
		Target:   target,
	}

	s, err := ops.GetSettings(r.Context(), h.store)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.Folder = s.StickerFolder

	session, err := ops.OpenSession(r.Context(), h.vault, s)
	if err != nil {
		data.Error = errors.As(err)
		if data.Error.Code == errors.ErrInternal {
			h.renderer.renderError(w, r, err)
			return
		}
		h.renderer.renderPageStatus(w, r, data.Error.Status, "picker", data)
		return
	}

	ps := h.sessions.add(session, target)
	logger.Debug("picker session opened", "id", ps.id, "folder", s.StickerFolder, "stickers", session.Len())

	result, err := session.Filter("")
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.SessionID = ps.id
	data.Size = session.Size()
	data.Items = result.Items
	data.Total = result.Total
	h.renderer.renderPage(w, r, "picker", data)
}

// HandlePickerResults handles GET /picker/{id}/results: re-filter the session's index.
func (h *Handlers) HandlePickerResults(w http.ResponseWriter, r *http.Request) {
	ps, ok := h.sessions.get(r.PathValue("id"))
	if !ok {
		h.renderer.renderError(w, r, errors.NewNotFound("picker session", r.PathValue("id")))
		return
	}

	query := r.URL.Query().Get("q")
	result, err := ps.session.Filter(query)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data := PickerPageData{
		PageData:  h.renderer.page("Insert sticker", "picker"),
		SessionID: ps.id,
		Folder:    ps.session.Folder(),
		Size:      ps.session.Size(),
		Query:     query,
		Items:     result.Items,
		Total:     result.Total,
		Target:    ps.target,
	}

	// Search box swaps only the results; a plain GET gets the whole page
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "picker", "picker-results", data)
		return
	}
	h.renderer.renderPage(w, r, "picker", data)
}

// HandlePickerChoose handles POST /picker/{id}/choose: format the chosen
// sticker, insert it into the target document and close the session.
func (h *Handlers) HandlePickerChoose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ps, ok := h.sessions.get(id)
	if !ok {
		h.renderer.renderError(w, r, errors.NewNotFound("picker session", id))
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	input := ops.InsertInput{Sticker: r.FormValue("path"), Cursor: ps.target.Cursor}

	var out *ops.InsertOutput
	var err error
	if ps.target.Document == "" {
		var ref string
		ref, err = ps.session.Choose(input.Sticker)
		out = &ops.InsertOutput{Reference: ref, Cursor: input.Cursor}
	} else {
		out, err = ops.InsertChoice(r.Context(), ps.session, editor.NewFile(h.vault, ps.target.Document), input)
	}
	if ps.session.Closed() {
		h.sessions.remove(id)
	}
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	data := PickerPageData{
		PageData: h.renderer.page("Sticker inserted", "picker"),
		Folder:   ps.session.Folder(),
		Size:     ps.session.Size(),
		Target:   ps.target,
		Chosen:   out,
	}

	if isHTMX(r) {
		h.renderer.renderBlock(w, http.StatusOK, "picker", "picker-chosen", data)
		return
	}
	if ps.target.Document != "" {
		http.Redirect(w, r, documentURL(ps.target.Document), http.StatusSeeOther)
		return
	}
	h.renderer.renderPage(w, r, "picker", data)
}

// HandlePickerClose handles DELETE /picker/{id}: dismiss the picker without choosing.
func (h *Handlers) HandlePickerClose(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ps, ok := h.sessions.get(id)
	if !ok || !h.sessions.remove(id) {
		h.renderer.renderError(w, r, errors.NewNotFound("picker session", id))
		return
	}

	if isHTMX(r) {
		dest := "/settings"
		if ps.target.Document != "" {
			dest = documentURL(ps.target.Document)
		}
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{"closed": true, "id": id})
}

// HandleVaultFile handles GET /vault/{path...}: serve a sticker image.
func (h *Handlers) HandleVaultFile(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	f, err := h.vault.OpenResource(rel)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	http.ServeContent(w, r, path.Base(rel), info.ModTime(), f)
}

// HandleSettings handles GET /settings: show the settings panel.
func (h *Handlers) HandleSettings(w http.ResponseWriter, r *http.Request) {
	s, err := ops.GetSettings(r.Context(), h.store)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.renderSettings(w, r, s, false)
}

// HandleSettingsUpdate handles POST /settings: save whichever fields were submitted.
func (h *Handlers) HandleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	var change ops.SettingsChange
	if _, ok := r.PostForm["folder"]; ok {
		folder := r.PostForm.Get("folder")
		change.Folder = &folder
	}
	if _, ok := r.PostForm["size"]; ok {
		size := r.PostForm.Get("size")
		change.Size = &size
	}

	s, err := ops.UpdateSettings(r.Context(), h.store, change)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, s)
		return
	}
	h.renderSettings(w, r, s, true)
}

func (h *Handlers) renderSettings(w http.ResponseWriter, r *http.Request, s settings.Settings, saved bool) {
	folders, err := ops.ListFolders(r.Context(), h.vault, s)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := SettingsPageData{
		PageData: h.renderer.page("Settings", "settings"),
		Options:  folders.Options,
		Folder:   s.StickerFolder,
		Size:     s.DefaultSize,
		Saved:    saved,
	}

	if r.Header.Get("HX-Target") == "settings-form" {
		h.renderer.renderBlock(w, http.StatusOK, "settings", "settings-form", data)
		return
	}
	h.renderer.renderPage(w, r, "settings", data)
}

// HandleDocument handles GET /documents: preview a markdown document.
func (h *Handlers) HandleDocument(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimSpace(r.URL.Query().Get("path"))
	if rel == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("path is required"))
		return
	}

	data, err := h.vault.ReadDocument(rel)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	doc := editor.NewDocument(string(data))
	h.renderer.renderPage(w, r, "document", DocumentPageData{
		PageData:     h.renderer.page(path.Base(rel), "document"),
		Path:         rel,
		RenderedHTML: renderMarkdown(h.markdown, data),
		End:          doc.Clip(editor.Cursor{Line: doc.LineCount()}),
	})
}

// parseTarget reads the insertion target from doc, line and ch parameters.
func parseTarget(q url.Values) (Target, error) {
	target := Target{Document: strings.TrimSpace(q.Get("doc"))}
	if target.Document == "" {
		return target, nil
	}

	var err error
	if target.Cursor.Line, err = parseIntValue(q, "line"); err != nil {
		return Target{}, err
	}
	if target.Cursor.Ch, err = parseIntValue(q, "ch"); err != nil {
		return Target{}, err
	}
	return target, nil
}

// parseIntValue parses an optional integer parameter, defaulting to 0.
func parseIntValue(q url.Values, name string) (int, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewInvalidRequest(name + " must be an integer")
	}
	return v, nil
}

// documentURL returns the preview route for a document.
func documentURL(doc string) string {
	return "/documents?path=" + url.QueryEscape(doc)
}

// pickerURL returns the route that opens a picker for a document position.
func pickerURL(doc string, line, ch int) template.URL {
	q := url.Values{}
	q.Set("doc", doc)
	q.Set("line", strconv.Itoa(line))
	q.Set("ch", strconv.Itoa(ch))
	return template.URL("/picker?" + q.Encode())
}
