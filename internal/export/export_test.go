package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/extract"
	"github.com/jonathan/resume-builder/internal/types"
)

func sampleResume() *types.ResumeData {
	return &types.ResumeData{
		PersonalDetails: &types.PersonalDetails{FullName: "Jane Doe", Email: "jane@example.com", Location: "Berlin"},
		Summary:         "Backend engineer & mentor.",
		Experience: []types.ExperienceItem{
			{ID: "b", JobTitle: "Staff Engineer", Company: "Acme", StartDate: "2021", Current: true, Description: "Led billing\nCut costs 30%"},
			{ID: "a", JobTitle: "Engineer", Company: "Initech", StartDate: "2018", EndDate: "2020"},
		},
		Education: []types.EducationItem{{ID: "e", School: "TU Berlin", Degree: "MSc"}},
		Skills:    []types.SkillItem{{ID: "1", Name: "Go"}, {ID: "2", Name: "SQL"}},
		CustomSections: []types.CustomSection{
			{ID: "empty", Title: "Awards"},
			{ID: "p", Title: "Projects", Items: []types.CustomItem{{ID: "p1", Title: "resumectl", Description: "A CLI"}}},
		},
	}
}

func kinds(doc Document) []SectionKind {
	out := make([]SectionKind, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		out = append(out, s.Kind)
	}
	return out
}

func TestBuildDocument_Order(t *testing.T) {
	doc := BuildDocument(sampleResume())

	assert.Equal(t, []SectionKind{KindHeader, KindSummary, KindExperience, KindEducation, KindSkills, KindCustom}, kinds(doc))

	header := doc.Sections[0].Entries[0]
	assert.Equal(t, "Jane Doe", header.Heading)
	assert.Equal(t, []string{"jane@example.com | Berlin"}, header.Lines)

	exp := doc.Sections[2]
	require.Len(t, exp.Entries, 2)
	assert.Equal(t, "Staff Engineer", exp.Entries[0].Heading, "stored order is kept")
	assert.Equal(t, "2021 - Present", exp.Entries[0].Dates)
	assert.Equal(t, []string{"Led billing", "Cut costs 30%"}, exp.Entries[0].Lines)

	assert.Equal(t, []string{"Go, SQL"}, doc.Sections[4].Entries[0].Lines)
	assert.Equal(t, "Projects", doc.Sections[5].Title)
}

func TestBuildDocument_OmitsEmptySections(t *testing.T) {
	assert.Empty(t, BuildDocument(nil).Sections)
	assert.Empty(t, BuildDocument(&types.ResumeData{}).Sections)

	doc := BuildDocument(&types.ResumeData{
		PersonalDetails: &types.PersonalDetails{},
		Skills:          []types.SkillItem{{ID: "1", Name: ""}},
	})
	require.Equal(t, []SectionKind{KindHeader}, kinds(doc))
	assert.Equal(t, DefaultName, doc.Sections[0].Entries[0].Heading)
	assert.Nil(t, doc.Sections[0].Entries[0].Lines)
}

func TestDOCX_RoundTrip(t *testing.T) {
	out, err := DOCX(BuildDocument(sampleResume()))
	require.NoError(t, err)

	text, err := extract.FromBytes(context.Background(), out, DOCXContentType, "resume.docx")
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	assert.Equal(t, "Jane Doe", lines[0])
	assert.Contains(t, text, "SUMMARY")
	assert.Contains(t, text, "Backend engineer & mentor.")
	assert.Contains(t, text, "EXPERIENCE")
	assert.Contains(t, text, "Acme | 2021 - Present")
	assert.Contains(t, text, "Led billing\nCut costs 30%")
	assert.Contains(t, text, "TU Berlin\nMSc")
	assert.Contains(t, text, "Go, SQL")
	assert.Contains(t, text, "resumectl")
	assert.NotContains(t, text, "AWARDS")

	assert.Less(t, strings.Index(text, "EXPERIENCE"), strings.Index(text, "EDUCATION"))
	assert.Less(t, strings.Index(text, "Staff Engineer"), strings.Index(text, "Initech"))
}

func TestDOCX_SameTextForSameDocument(t *testing.T) {
	read := func() string {
		out, err := DOCX(BuildDocument(sampleResume()))
		require.NoError(t, err)
		text, err := extract.FromBytes(context.Background(), out, DOCXContentType, "resume.docx")
		require.NoError(t, err)
		return text
	}
	assert.Equal(t, read(), read())
}

func TestDOCX_ControlCharactersAreDropped(t *testing.T) {
	out, err := DOCX(BuildDocument(&types.ResumeData{
		PersonalDetails: &types.PersonalDetails{FullName: "Jane\x00 \x01Doe & <Co>"},
	}))
	require.NoError(t, err)
	text, err := extract.FromBytes(context.Background(), out, DOCXContentType, "resume.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe & <Co>")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a & b <c>", cleanText("a & b <c>"))
	assert.Equal(t, "ab\tc", cleanText("a\x00\x01b\tc"))
}

func TestExporter_DOCX(t *testing.T) {
	e := NewExporter(nil, 0)
	out, err := e.DOCX(types.Document{"personalDetails": map[string]any{"fullName": "Jane"}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}

func TestExporter_PDFUsesPresentation(t *testing.T) {
	var got string
	e := NewExporter(PDFRendererFunc(func(_ context.Context, html string) ([]byte, error) {
		got = html
		return []byte("%PDF-1.4"), nil
	}), 1)

	doc := types.Document{
		"personalDetails": map[string]any{"fullName": "Jane Doe"},
		"presentation":    map[string]any{"templateId": "classic"},
	}
	out, err := e.PDF(context.Background(), "", doc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), out)
	assert.Contains(t, got, `class="page classic"`)
	assert.Contains(t, got, "Jane Doe")
}

func TestExporter_PDFErrors(t *testing.T) {
	_, err := NewExporter(nil, 1).PDF(context.Background(), "", types.Document{})
	var ee *Error
	require.ErrorAs(t, err, &ee)

	boom := errors.New("chrome crashed")
	e := NewExporter(PDFRendererFunc(func(context.Context, string) ([]byte, error) { return nil, boom }), 1)
	_, err = e.PDF(context.Background(), "k", types.Document{})
	require.ErrorIs(t, err, boom)
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "pdf", ee.Format)
}

func TestExporter_BoundsConcurrency(t *testing.T) {
	var inflight, peak int32
	e := NewExporter(PDFRendererFunc(func(context.Context, string) ([]byte, error) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		return []byte("pdf"), nil
	}), 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.PDF(context.Background(), "", types.Document{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestExporter_CoalescesSameKey(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	e := NewExporter(PDFRendererFunc(func(context.Context, string) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return []byte("pdf"), nil
	}), 4)

	results := make(chan []byte, 2)
	go func() {
		out, _ := e.PDF(context.Background(), "s@1", types.Document{})
		results <- out
	}()
	<-started
	go func() {
		out, _ := e.PDF(context.Background(), "s@1", types.Document{})
		results <- out
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, []byte("pdf"), <-results)
	assert.Equal(t, []byte("pdf"), <-results)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExporter_WaiterCanGiveUp(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	e := NewExporter(PDFRendererFunc(func(context.Context, string) ([]byte, error) {
		<-release
		return []byte("pdf"), nil
	}), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := e.PDF(ctx, "s@2", types.Document{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "", Key(nil))
	sess := &types.Session{Version: 3}
	assert.True(t, strings.HasSuffix(Key(sess), "@3"))
}
