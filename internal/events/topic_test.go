package events

import (
	"sync"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	topic := NewTopic[string]()

	var got []string
	topic.Subscribe(func(s string) { got = append(got, "a:"+s) })
	topic.Subscribe(func(s string) { got = append(got, "b:"+s) })

	if n := topic.Publish("x"); n != 2 {
		t.Errorf("Publish() delivered to %d, want 2", n)
	}

	want := []string{"a:x", "b:x"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	var topic Topic[int]

	calls := 0
	sub := topic.Subscribe(func(int) { calls++ })
	topic.Publish(1)

	sub.Unsubscribe()
	sub.Unsubscribe()
	topic.Publish(2)

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if topic.Len() != 0 {
		t.Errorf("Len() = %d, want 0", topic.Len())
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	topic := NewTopic[int]()

	var second *Subscription
	secondCalls := 0
	topic.Subscribe(func(int) { second.Unsubscribe() })
	second = topic.Subscribe(func(int) { secondCalls++ })

	if n := topic.Publish(1); n != 1 {
		t.Errorf("Publish() delivered to %d, want 1", n)
	}
	if secondCalls != 0 {
		t.Error("handler unsubscribed mid-publish should not run")
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	topic := NewTopic[int]()

	lateCalls := 0
	topic.Subscribe(func(int) {
		topic.Subscribe(func(int) { lateCalls++ })
	})

	topic.Publish(1)
	if lateCalls != 0 {
		t.Error("handler added mid-publish should not see that value")
	}
	topic.Publish(2)
	if lateCalls != 1 {
		t.Errorf("late handler called %d times, want 1", lateCalls)
	}
}

func TestNilSubscription(t *testing.T) {
	var sub *Subscription
	sub.Unsubscribe()
}

func TestConcurrentSubscribe(t *testing.T) {
	topic := NewTopic[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := topic.Subscribe(func(int) {})
			topic.Publish(0)
			sub.Unsubscribe()
		}()
	}
	wg.Wait()

	if topic.Len() != 0 {
		t.Errorf("Len() = %d, want 0", topic.Len())
	}
}
