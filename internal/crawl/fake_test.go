package crawl

import (
	"time"

	"github.com/AlfredBerg/rod-skills/internal/browser"
	"github.com/AlfredBerg/rod-skills/internal/config"
)

var testSelectors = config.Selectors{
	ListContainer: "list",
	ListItem:      "list li",
	JobIDAttr:     "data-id",
	NextPage:      "next",
	ModalButton:   "modal-button",
	ModalContent:  "modal",
	ModalItem:     "modal li",
	SkillText:     "div2",
}

type fakeElement struct {
	attrs     map[string]string
	text      string
	textErr   error
	staleOnce bool
	hidden    bool
	covered   bool
	children  map[string][]browser.Element
	onClick   func() error
	clicks    int
	scrolls   int
}

func (e *fakeElement) Click() error {
	e.clicks++
	if e.onClick != nil {
		return e.onClick()
	}
	return nil
}

func (e *fakeElement) Attribute(name string) (string, error) {
	if e.staleOnce {
		e.staleOnce = false
		return "", browser.ErrStaleElement
	}
	return e.attrs[name], nil
}

func (e *fakeElement) Text() (string, error)  { return e.text, e.textErr }
func (e *fakeElement) Visible() (bool, error) { return !e.hidden, nil }
func (e *fakeElement) Clickable() (bool, error) {
	return !e.hidden && !e.covered, nil
}

func (e *fakeElement) ScrollIntoView() error {
	e.scrolls++
	return nil
}

func (e *fakeElement) Find(selector string) ([]browser.Element, error) {
	return e.children[selector], nil
}

func listItem(id string) *fakeElement {
	return &fakeElement{attrs: map[string]string{"data-id": id}}
}

func skillItem(text string) *fakeElement {
	return &fakeElement{children: map[string][]browser.Element{
		"div2": {&fakeElement{text: text}},
	}}
}

type fakeJobPage struct {
	noButton    bool
	modalHidden bool
	items       []browser.Element
}

// fakeSite scripts a paged job search and per-job detail pages.
type fakeSite struct {
	current   string
	navigated []string
	navErr    map[string]error
	loadErr   map[string]error

	pages [][]browser.Element
	page  int
	// the list container is missing from this page index on
	listMissingFrom int
	// number of next-button clicks to intercept
	intercepts int
	next       *fakeElement
	itemReads  int

	jobs      map[string]*fakeJobPage
	modalOpen bool
}

func newFakeSite(pages ...[]browser.Element) *fakeSite {
	s := &fakeSite{
		navErr:          map[string]error{},
		loadErr:         map[string]error{},
		pages:           pages,
		listMissingFrom: len(pages),
		jobs:            map[string]*fakeJobPage{},
	}
	s.next = &fakeElement{onClick: func() error {
		if s.intercepts > 0 {
			s.intercepts--
			return browser.ErrClickIntercepted
		}
		s.page++
		return nil
	}}
	return s
}

func (s *fakeSite) Navigate(url string) error {
	s.navigated = append(s.navigated, url)
	if err := s.navErr[url]; err != nil {
		return err
	}
	s.current = url
	s.modalOpen = false
	return nil
}

func (s *fakeSite) WaitLoad(timeout time.Duration) error {
	return s.loadErr[s.current]
}

func (s *fakeSite) Find(selector string) ([]browser.Element, error) {
	job := s.jobs[s.current]

	switch selector {
	case testSelectors.ListContainer:
		if s.current == "search" && s.page < s.listMissingFrom {
			return []browser.Element{&fakeElement{}}, nil
		}
	case testSelectors.ListItem:
		if s.current == "search" && s.page < len(s.pages) {
			s.itemReads++
			return s.pages[s.page], nil
		}
	case testSelectors.NextPage:
		if s.current == "search" && s.page+1 < len(s.pages) {
			return []browser.Element{s.next}, nil
		}
	case testSelectors.ModalButton:
		if job != nil && !job.noButton {
			return []browser.Element{&fakeElement{onClick: func() error {
				s.modalOpen = true
				return nil
			}}}, nil
		}
	case testSelectors.ModalContent:
		if job != nil && s.modalOpen {
			return []browser.Element{&fakeElement{hidden: job.modalHidden}}, nil
		}
	case testSelectors.ModalItem:
		if job != nil && s.modalOpen {
			return job.items, nil
		}
	}
	return nil, nil
}
