package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mknopf/vitrine/internal/folio"
	"github.com/mknopf/vitrine/internal/likes"
	"github.com/mknopf/vitrine/internal/prefs"
	"github.com/mknopf/vitrine/internal/session"
	"github.com/mknopf/vitrine/internal/state"
	"github.com/mknopf/vitrine/internal/view"
)

// Screen represents the current active screen.
type Screen int

const (
	ScreenGallery Screen = iota
	ScreenDetail
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Projects  *state.Projects
	Bookmarks *state.Bookmarks
	Likes     *likes.Service
	Session   *session.Session
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
	PollTick  time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Wiring
	ctx       context.Context
	projects  *state.Projects
	bookmarks *state.Bookmarks
	likes     *likes.Service
	session   *session.Session
	logger    *slog.Logger
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme         Theme
	currentScreen Screen
	width         int
	height        int
	ready         bool

	// Data state
	projSnap state.Snapshot[folio.Project]
	bmSnap   state.Snapshot[folio.Bookmark]

	// Gallery state
	filter      view.Filter
	sortKey     view.Sort
	pageSize    int
	pageNumber  int
	selectedRow int

	// Search input
	searchInput textinput.Model
	searching   bool

	// Detail state
	detailID folio.ID

	// Transient status line, cleared on the next keypress
	notice      string
	noticeStyle func(Styles) string

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Placeholder = "search projects"
	search.CharLimit = 80

	return Model{
		ctx:           ctx,
		projects:      opts.Projects,
		bookmarks:     opts.Bookmarks,
		likes:         opts.Likes,
		session:       opts.Session,
		logger:        logger,
		prefsPath:     prefsPath,
		pollTick:      pollTick,
		theme:         GetTheme(opts.Prefs.Theme),
		currentScreen: ScreenGallery,
		sortKey:       opts.Prefs.SortKey(),
		pageSize:      opts.Prefs.PageSize,
		pageNumber:    1,
		searchInput:   search,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Render whatever the stores already hold
	if m.projects != nil {
		cmds = append(cmds, snapshotCmd(m.projects, m.bookmarks))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.projSnap = msg.projects
		m.bmSnap = msg.bookmarks
		m.clampSelection()
		return m, nil

	case toggleMsg:
		return m.handleToggle(msg)

	case refreshedMsg:
		if msg.err != nil {
			m.setNotice("refresh failed: "+msg.err.Error(), noticeDanger)
		}
		return m, snapshotCmd(m.projects, m.bookmarks)

	case deletedMsg:
		if msg.err != nil {
			m.setNotice("delete failed: "+msg.err.Error(), noticeDanger)
		} else {
			m.setNotice("project deleted", noticeSuccess)
			m.currentScreen = ScreenGallery
		}
		return m, snapshotCmd(m.projects, m.bookmarks)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.currentScreen {
	case ScreenDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderGallery())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// handleTick re-snapshots the stores on every poll tick. The background
// poller owns the network; the UI only reads.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.projects != nil {
		cmds = append(cmds, snapshotCmd(m.projects, m.bookmarks))
	}
	return m, tea.Batch(cmds...)
}

// handleToggle reports the result of a like toggle.
func (m Model) handleToggle(msg toggleMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, likes.ErrAuthRequired):
		m.setNotice("sign in to like projects", noticeWarning)
	case errors.Is(msg.err, likes.ErrToggleInFlight):
		// Toggle already running for this project, ignore
	case msg.err != nil:
		m.setNotice("like failed: "+msg.err.Error(), noticeDanger)
	case msg.result.Action == likes.ActionAdded:
		m.setNotice("liked", noticeSuccess)
	default:
		m.setNotice("unliked", noticeMuted)
	}
	return m, snapshotCmd(m.projects, m.bookmarks)
}

// derived returns the projects currently visible on screen.
func (m Model) derived() []folio.Project {
	return view.Derive(m.projSnap.Items, m.likedFunc(), m.filter, m.sortKey, view.Page{Number: m.pageNumber, Size: m.pageSize})
}

// filteredCount returns how many projects pass the filter before paging.
func (m Model) filteredCount() int {
	return len(view.Derive(m.projSnap.Items, m.likedFunc(), m.filter, m.sortKey, view.Page{}))
}

func (m Model) likedFunc() view.LikedFunc {
	bm := m.bookmarks
	if bm == nil {
		return nil
	}
	return bm.Liked
}

// clampSelection keeps the cursor and page inside the derived list.
func (m *Model) clampSelection() {
	pages := view.TotalPages(m.filteredCount(), m.pageSize)
	if m.pageNumber > pages {
		m.pageNumber = pages
	}
	if m.pageNumber < 1 {
		m.pageNumber = 1
	}
	rows := len(m.derived())
	if m.selectedRow >= rows {
		m.selectedRow = rows - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// selectedProject returns the project under the cursor, if any.
func (m Model) selectedProject() (folio.Project, bool) {
	rows := m.derived()
	if m.selectedRow < 0 || m.selectedRow >= len(rows) {
		return folio.Project{}, false
	}
	return rows[m.selectedRow], true
}

// Notice severity levels

type noticeLevel int

const (
	noticeMuted noticeLevel = iota
	noticeSuccess
	noticeWarning
	noticeDanger
)

func (m *Model) setNotice(text string, level noticeLevel) {
	m.notice = text
	m.noticeStyle = func(s Styles) string {
		switch level {
		case noticeSuccess:
			return s.SuccessText.Render(text)
		case noticeWarning:
			return s.WarningText.Render(text)
		case noticeDanger:
			return s.DangerText.Render(text)
		default:
			return s.MutedText.Render(text)
		}
	}
}

func (m *Model) clearNotice() {
	m.notice = ""
	m.noticeStyle = nil
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	projects  state.Snapshot[folio.Project]
	bookmarks state.Snapshot[folio.Bookmark]
}

type toggleMsg struct {
	result likes.Result
	err    error
}

type refreshedMsg struct {
	err error
}

type deletedMsg struct {
	id  folio.ID
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func snapshotCmd(projects *state.Projects, bookmarks *state.Bookmarks) tea.Cmd {
	return func() tea.Msg {
		msg := snapshotMsg{}
		if projects != nil {
			msg.projects = projects.Snapshot()
		}
		if bookmarks != nil {
			msg.bookmarks = bookmarks.Snapshot()
		}
		return msg
	}
}

func toggleCmd(ctx context.Context, svc *likes.Service, id folio.ID) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Toggle(ctx, id)
		return toggleMsg{result: res, err: err}
	}
}

func refreshCmd(ctx context.Context, projects *state.Projects, bookmarks *state.Bookmarks, authed bool) tea.Cmd {
	return func() tea.Msg {
		if err := projects.Refresh(ctx, true); err != nil {
			return refreshedMsg{err: err}
		}
		if authed && bookmarks != nil {
			if err := bookmarks.Refresh(ctx, true); err != nil {
				return refreshedMsg{err: err}
			}
		}
		return refreshedMsg{}
	}
}

func deleteCmd(ctx context.Context, projects *state.Projects, id folio.ID) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: projects.Remove(ctx, id)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
