package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaEventPublisher_PublishScheduleImported(t *testing.T) {
	producer := &recordingProducer{}
	publisher := newKafkaEventPublisher(producer, "", "")

	pack := &domain.GigPack{
		ID:         "gig-1",
		OwnerID:    "user-1",
		Title:      "Friday",
		PublicSlug: "friday-1a2b3c4d",
		Schedule:   []domain.GigScheduleItem{{ID: "a", Time: "18:00", Label: "Soundcheck"}},
	}
	require.NoError(t, publisher.PublishScheduleImported(context.Background(), pack, 1))
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, "gigpack-events", msg.Topic)
	assert.Equal(t, []byte("gig-1"), msg.Key)
	assert.Equal(t, "gigpack.schedule_imported", msg.Headers["event_type"])
	assert.Equal(t, "gigpack-api", msg.Headers["source"])
	assert.Equal(t, "application/json", msg.Headers["content_type"])
	assert.NotEmpty(t, msg.Headers["event_id"])

	var event domain.GigPackEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, domain.GigPackEventScheduleImported, event.EventType)
	assert.Equal(t, msg.Headers["event_id"], event.EventID)
	assert.Equal(t, 1, event.Data.ImportedCount)
	assert.Equal(t, 1, event.Data.ScheduleCount)
	assert.Equal(t, "friday-1a2b3c4d", event.Data.PublicSlug)
}

func TestKafkaEventPublisher_EventTypes(t *testing.T) {
	producer := &recordingProducer{}
	publisher := newKafkaEventPublisher(producer, "custom-topic", "svc")
	pack := &domain.GigPack{ID: "gig-1"}
	ctx := context.Background()

	require.NoError(t, publisher.PublishGigPackCreated(ctx, pack))
	require.NoError(t, publisher.PublishGigPackUpdated(ctx, pack))
	require.NoError(t, publisher.PublishGigPackDeleted(ctx, pack))

	require.Len(t, producer.messages, 3)
	want := []string{"gigpack.created", "gigpack.updated", "gigpack.deleted"}
	for i, msg := range producer.messages {
		assert.Equal(t, "custom-topic", msg.Topic)
		assert.Equal(t, "svc", msg.Headers["source"])
		assert.Equal(t, want[i], msg.Headers["event_type"])
	}
}

func TestKafkaEventPublisher_ProduceError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	publisher := newKafkaEventPublisher(producer, "", "")

	err := publisher.PublishGigPackCreated(context.Background(), &domain.GigPack{ID: "gig-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gigpack.created")
	assert.Contains(t, err.Error(), "broker down")

	require.NoError(t, publisher.Close())
	assert.True(t, producer.closed)
}

func TestNewKafkaEventPublisher_Validation(t *testing.T) {
	_, err := NewKafkaEventPublisher(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewKafkaEventPublisher(context.Background(), &EventPublisherConfig{})
	assert.Error(t, err)
}

func TestNoOpEventPublisher(t *testing.T) {
	var p EventPublisher = NewNoOpEventPublisher()
	ctx := context.Background()
	pack := &domain.GigPack{ID: "gig-1"}

	assert.NoError(t, p.PublishGigPackCreated(ctx, pack))
	assert.NoError(t, p.PublishGigPackUpdated(ctx, pack))
	assert.NoError(t, p.PublishGigPackDeleted(ctx, pack))
	assert.NoError(t, p.PublishScheduleImported(ctx, pack, 3))
	assert.NoError(t, p.Close())
}
