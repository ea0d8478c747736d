package drum

import (
	"math/rand"
	"testing"
)

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	// A low rate keeps bank construction cheap in tests.
	bank, err := NewBank(8000, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	return bank
}

func TestBankLookupCoversCatalogue(t *testing.T) {
	bank := newTestBank(t)
	for _, pack := range Packs() {
		for pad := 0; pad < NumPads; pad++ {
			buf, ok := bank.Lookup(pack, pad)
			if !ok || len(buf) == 0 {
				t.Fatalf("missing buffer for %s pad %d", pack, pad)
			}
		}
	}
	for _, pad := range []int{PadVocal, PadClick} {
		buf, ok := bank.Lookup(PackClassic, pad)
		if !ok || len(buf) == 0 {
			t.Fatalf("missing utility buffer for slot %d", pad)
		}
	}
}

func TestBankLookupRejectsOutOfCatalogue(t *testing.T) {
	bank := newTestBank(t)
	for _, pad := range []int{-1, NumSlots, 42} {
		if _, ok := bank.Lookup(PackClassic, pad); ok {
			t.Fatalf("expected lookup failure for pad %d", pad)
		}
	}
	if _, ok := bank.Lookup(SoundPack(9), PadKick); ok {
		t.Fatal("expected lookup failure for invalid pack")
	}
}

func TestBankUtilityIgnoresPack(t *testing.T) {
	bank := newTestBank(t)
	a, _ := bank.Lookup(PackClassic, PadVocal)
	b, _ := bank.Lookup(PackRetro, PadVocal)
	if &a[0] != &b[0] {
		t.Fatal("utility lookup should resolve to the same buffer for every pack")
	}
}

func TestBankPacksDiffer(t *testing.T) {
	bank := newTestBank(t)
	a, _ := bank.Lookup(PackClassic, PadKick)
	b, _ := bank.Lookup(PackElectro, PadKick)
	if len(a) == len(b) {
		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		if same {
			t.Fatal("expected distinct kick renders across packs")
		}
	}
}
