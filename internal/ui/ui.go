package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/audiolib/internal/catalog"
	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/services"
	"github.com/desertthunder/audiolib/internal/shared"
	"github.com/desertthunder/audiolib/internal/stats"
	"github.com/desertthunder/audiolib/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	DetailView
	ConfirmView
	StatsView
	ExportView
	ResultView
)

var sortCycle = []catalog.SortKey{
	catalog.ByTitle,
	catalog.ByArtist,
	catalog.ByAlbum,
	catalog.ByYear,
	catalog.ByRating,
	catalog.ByPlayCount,
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	lib          *services.Library
	exportDir    string
	width        int
	height       int
	trackList    list.Model
	sortIdx      int
	selected     *models.Track
	report       stats.Report
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.BulkExportResult
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model browsing lib. Exports are written below exportDir.
func NewModel(ctx context.Context, lib *services.Library, exportDir string) *Model {
	trackList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	trackList.SetShowHelp(false)

	return &Model{
		ctx:       ctx,
		view:      TrackListView,
		lib:       lib,
		exportDir: exportDir,
		trackList: trackList,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading the catalog.
func (m *Model) Init() tea.Cmd {
	return m.loadTracks()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.trackList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case DetailView, StatsView:
			return m.handleBackKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleBackKeys(msg)
		case ExportView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTracksLoaded:
		tracks := msg.data.([]models.Track)
		cmd := m.trackList.SetItems(trackItems(tracks))
		m.trackList.Title = listTitle(len(tracks), m.sortKey())
		return m, cmd

	case MsgTrackDeleted:
		d := msg.data.(deletedData)
		m.view = TrackListView
		m.selected = nil
		if d.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Delete failed: %v", d.err))
		} else {
			m.status = styles.ok.Render(fmt.Sprintf("✓ Deleted %s", d.track))
		}
		return m, m.loadTracks()

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgExportComplete:
		d := msg.data.(exportData)
		m.result = d.result
		m.err = d.err
		m.view = ResultView
		m.progressChan = nil
		m.doneChan = nil
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case TrackListView:
		return m.renderTrackList()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case StatsView:
		return m.renderStats()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if t, ok := m.selectedTrack(); ok {
			m.selected = &t
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.delete):
		if t, ok := m.selectedTrack(); ok {
			m.selected = &t
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.sortIdx = (m.sortIdx + 1) % len(sortCycle)
		return m, m.loadTracks()
	case key.Matches(msg, m.keys.stats):
		m.report = m.lib.Stats()
		m.view = StatsView
		return m, nil
	case key.Matches(msg, m.keys.export):
		m.view = ExportView
		m.status = ""
		return m, m.startExport()
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleBackKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = TrackListView
		m.selected = nil
		m.result = nil
		m.err = nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = TrackListView
		m.selected = nil
		return m, nil
	case key.Matches(msg, m.keys.yes):
		return m, m.deleteSelected()
	}
	return m, nil
}

func (m *Model) sortKey() catalog.SortKey {
	return sortCycle[m.sortIdx]
}

func (m *Model) selectedTrack() (models.Track, bool) {
	item, ok := m.trackList.SelectedItem().(trackItem)
	if !ok {
		return models.Track{}, false
	}
	return item.track, true
}

func (m *Model) loadTracks() tea.Cmd {
	sk := m.sortKey()
	return func() tea.Msg {
		return tracksLoadedMsg(m.lib.Sorted(sk))
	}
}

func (m *Model) deleteSelected() tea.Cmd {
	t := *m.selected
	return func() tea.Msg {
		return trackDeletedMsg(t, m.lib.Remove(m.ctx, t.Title, t.Artist))
	}
}

func (m *Model) startExport() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		result, err := m.lib.BulkExport(m.ctx, progress, tasks.Formats, tasks.BulkExportOpts{OutputDir: m.exportDir})
		close(progress)
		done <- exportCompleteMsg(result, err)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return exportCompleteMsg(nil, fmt.Errorf("%w: no export running", shared.ErrInvalidArgument))
		}

		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderTrackList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.sort, m.keys.stats, m.keys.delete, m.keys.export, m.keys.quit}
	helpView := styles.help.Render(m.help.ShortHelpView(helpKeys))
	if m.status != "" {
		return fmt.Sprintf("%s\n%s\n%s", m.trackList.View(), m.status, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	t := m.selected

	year := "-"
	if t.Year != 0 {
		year = fmt.Sprint(t.Year)
	}
	rows := [][2]string{
		{"Title", t.Title},
		{"Artist", t.Artist},
		{"Album", t.Album},
		{"Genre", t.Genre},
		{"Year", year},
		{"Duration", shared.FormatDuration(t.Duration)},
		{"Rating", shared.FormatRating(t.Rating)},
		{"Plays", fmt.Sprint(t.PlayCount)},
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(t.Title))
	b.WriteString("\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(r[0]), r[1])
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func (m *Model) renderConfirm() string {
	if m.selected == nil {
		return ""
	}
	title := styles.warn.Render(fmt.Sprintf("Delete %s?", m.selected))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderStats() string {
	r := m.report

	var b strings.Builder
	b.WriteString(styles.title.Render("Library Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d\n", styles.label.Render("Tracks"), r.TotalTracks)
	fmt.Fprintf(&b, "%s %d\n", styles.label.Render("Artists"), r.TotalArtists)
	fmt.Fprintf(&b, "%s %d\n", styles.label.Render("Albums"), r.TotalAlbums)
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Duration"), r.FormattedDuration)
	fmt.Fprintf(&b, "%s %d\n", styles.label.Render("Plays"), r.TotalPlayCount)
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Avg rating"), shared.FormatFloat(r.AverageRating))

	if len(r.Genres) > 0 {
		b.WriteString("\n" + styles.ok.Render("Top genres") + "\n")
		for _, g := range r.Genres {
			fmt.Fprintf(&b, "  %s (%d)\n", g.Genre, g.Count)
		}
	}
	if len(r.TopRated) > 0 {
		b.WriteString("\n" + styles.ok.Render("Top rated") + "\n")
		for _, t := range r.TopRated {
			fmt.Fprintf(&b, "  %s %s - %s\n", shared.FormatRating(t.Rating), t.Artist, t.Title)
		}
	}
	if len(r.MostPlayed) > 0 {
		b.WriteString("\n" + styles.ok.Render("Most played") + "\n")
		for _, t := range r.MostPlayed {
			fmt.Fprintf(&b, "  %d × %s - %s\n", t.PlayCount, t.Artist, t.Title)
		}
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s", b.String(), helpView)
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting Library")

	phase := "Starting..."
	if m.progress.Phase == tasks.Export && m.progress.Total > 0 {
		phase = fmt.Sprintf("Exporting formats (%d/%d)", m.progress.Step, m.progress.Total)
	}
	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v", m.err)) + "\n\n" + helpView
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nDirectory: %s\nTracks: %d\nFormats: %d/%d",
		m.result.OutputDirectory, m.result.TrackCount, m.result.Successful, m.result.TotalFormats)

	var files strings.Builder
	for _, r := range m.result.Results {
		if r.Success {
			fmt.Fprintf(&files, "\n  • %s (%d bytes)", r.File, r.Bytes)
		} else {
			files.WriteString("\n" + styles.warn.Render(fmt.Sprintf("  • %s: %s", r.Format, r.Error)))
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, files.String(), helpView)
}
