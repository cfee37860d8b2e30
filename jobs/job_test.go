package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samgozman/fin-pulse/composer"
	"github.com/samgozman/fin-pulse/editor"
	"github.com/samgozman/fin-pulse/journalist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPreparer struct {
	mock.Mock
}

func (m *MockPreparer) Prepare(ctx context.Context, asOf time.Time) *editor.Edition {
	args := m.Called(ctx, asOf)
	return args.Get(0).(*editor.Edition)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(msg string, format composer.Format) (string, error) {
	args := m.Called(msg, format)
	return args.String(0), args.Error(1)
}

func edition(alerts ...string) *editor.Edition {
	list := make(journalist.HeadlineList, 0, len(alerts))
	for _, a := range alerts {
		list = append(list, &journalist.HeadlineAlert{Title: a, SourceFeed: "test"})
	}
	return &editor.Edition{
		Briefing: composer.Briefing{Text: "briefing", Format: composer.Markdown},
		Alerts:   list,
	}
}

func TestBriefingJob_Run(t *testing.T) {
	tests := []struct {
		name           string
		onlyWithAlerts bool
		edition        *editor.Edition
		wantPublish    bool
	}{
		{
			name:        "daily sends without alerts",
			edition:     edition(),
			wantPublish: true,
		},
		{
			name:        "daily sends with alerts",
			edition:     edition("Iran missile test"),
			wantPublish: true,
		},
		{
			name:           "emergency skips without alerts",
			onlyWithAlerts: true,
			edition:        edition(),
			wantPublish:    false,
		},
		{
			name:           "emergency sends with alerts",
			onlyWithAlerts: true,
			edition:        edition("Iran missile test"),
			wantPublish:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(MockPreparer)
			p.On("Prepare", mock.Anything, mock.Anything).Return(tt.edition).Once()
			pub := new(MockPublisher)
			if tt.wantPublish {
				pub.On("Publish", "briefing", composer.Markdown).Return("1", nil).Once()
			}

			job := NewBriefingJob("test", p, pub).Publish()
			if tt.onlyWithAlerts {
				job.OnlyWithAlerts()
			}
			job.Run()()

			p.AssertExpectations(t)
			pub.AssertExpectations(t)
			if !tt.wantPublish {
				pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestBriefingJob_Run_printsWhenNotPublishing(t *testing.T) {
	p := new(MockPreparer)
	p.On("Prepare", mock.Anything, mock.Anything).Return(edition())
	pub := new(MockPublisher)

	var out bytes.Buffer
	job := NewBriefingJob("dev", p, pub)
	job.out = &out
	job.Run()()

	assert.Equal(t, "briefing\n", out.String())
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestBriefingJob_Run_deliveryFailureIsNotRetried(t *testing.T) {
	p := new(MockPreparer)
	p.On("Prepare", mock.Anything, mock.Anything).Return(edition())
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return("", errors.New("chat not found"))

	assert.NotPanics(t, func() { NewBriefingJob("daily", p, pub).Publish().Run()() })
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestBriefingJob_Run_datesInLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	assert.NoError(t, err)

	p := new(MockPreparer)
	p.On("Prepare", mock.Anything, mock.MatchedBy(func(asOf time.Time) bool {
		return asOf.Location() == loc && asOf.Hour() == 9
	})).Return(edition())
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return("1", nil)

	job := NewBriefingJob("daily", p, pub).In(loc).Publish()
	job.now = func() time.Time { return time.Date(2025, 7, 2, 7, 0, 0, 0, time.UTC) }
	job.Run()()

	p.AssertExpectations(t)
}

func TestBriefingJob_Run_contextHasDeadline(t *testing.T) {
	p := new(MockPreparer)
	p.On("Prepare", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(edition())

	job := NewBriefingJob("daily", p, new(MockPublisher)).Timeout(5 * time.Second)
	job.out = &bytes.Buffer{}
	job.Run()()

	p.AssertExpectations(t)
}
