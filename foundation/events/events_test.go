package events_test

import (
	"testing"

	"github.com/ardanlabs/utxochain/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to fan out ledger events.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen subscribers filter by prefix.", testID)
		{
			evts := events.New()

			all := evts.Acquire("all", "")
			blocks := evts.Acquire("blocks", "viewer: block:")

			if evts.Count() != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould have two subscribers, got %d.", failed, testID, evts.Count())
			}
			t.Logf("\t%s\tTest %d:\tShould have two subscribers.", success, testID)

			evts.Send("state: AddTransaction: accepted")
			evts.Send(`viewer: block: {"hash":"00ab"}`)

			if len(all) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould deliver every event without a prefix, got %d.", failed, testID, len(all))
			}
			t.Logf("\t%s\tTest %d:\tShould deliver every event without a prefix.", success, testID)

			if len(blocks) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould deliver only matching events, got %d.", failed, testID, len(blocks))
			}
			if msg := <-blocks; msg != `viewer: block: {"hash":"00ab"}` {
				t.Fatalf("\t%s\tTest %d:\tShould deliver the block event : %s", failed, testID, msg)
			}
			t.Logf("\t%s\tTest %d:\tShould deliver only matching events.", success, testID)

			if err := evts.Release("blocks"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to release : %v", failed, testID, err)
			}
			if _, open := <-blocks; open {
				t.Fatalf("\t%s\tTest %d:\tShould close the released channel.", failed, testID)
			}
			if err := evts.Release("blocks"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not release twice.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to release a subscriber once.", success, testID)

			evts.Shutdown()
			if evts.Count() != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould drop every subscriber on shutdown.", failed, testID)
			}
			<-all
			<-all
			if _, open := <-all; open {
				t.Fatalf("\t%s\tTest %d:\tShould close channels on shutdown.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould close channels on shutdown.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a subscriber stops reading.", testID)
		{
			evts := events.New()
			slow := evts.Acquire("slow", "")

			for i := 0; i < 500; i++ {
				evts.Send("tick")
			}

			if len(slow) != cap(slow) {
				t.Fatalf("\t%s\tTest %d:\tShould fill the buffer and drop the rest, got %d.", failed, testID, len(slow))
			}
			t.Logf("\t%s\tTest %d:\tShould drop events instead of blocking.", success, testID)

			evts.Shutdown()
		}
	}
}
