package adf

import "testing"

func TestHashNameIsDeterministicAndBucketed(t *testing.T) {
	h1 := hashName("readme")
	h2 := hashName("readme")
	if h1 != h2 {
		t.Fatalf("hashName is not deterministic: %d != %d", h1, h2)
	}
	if h1 < 0 || h1 >= HashTableSize {
		t.Fatalf("hashName(%q) = %d, out of range [0,%d)", "readme", h1, HashTableSize)
	}
}

func TestHashNameFoldsCaseButLookupIsExact(t *testing.T) {
	if hashName("README") != hashName("readme") {
		t.Fatalf("hash bucket should fold ASCII case")
	}
	vol := newTestVolume(t, DDBlocks)
	f := NewFacade(vol)
	if _, err := f.Create("/readme"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.Create("/README"); err != nil {
		t.Fatalf("Create should succeed for a differently-cased name colliding in the same bucket: %v", err)
	}
	if _, err := f.GetAttr("/readme"); err != nil {
		t.Fatalf("GetAttr(/readme): %v", err)
	}
	if _, err := f.GetAttr("/README"); err != nil {
		t.Fatalf("GetAttr(/README): %v", err)
	}
}

func TestListSkipsEmptyNameButContinuesChain(t *testing.T) {
	vol := newTestVolume(t, DDBlocks)
	f := NewFacade(vol)

	// Find two names that collide in the same bucket, so the second
	// one only reaches the listing by walking past the first's
	// hash_chain link.
	seen := map[int]string{}
	var a, b string
	for i := 0; b == ""; i++ {
		n := names(i)
		bucket := hashName(n)
		if prev, ok := seen[bucket]; ok {
			a, b = prev, n
		} else {
			seen[bucket] = n
		}
		if i > 100000 {
			t.Fatalf("could not find two colliding names")
		}
	}

	if _, err := f.Create("/" + a); err != nil {
		t.Fatalf("Create %s: %v", a, err)
	}
	blockB, err := f.Create("/" + b)
	if err != nil {
		t.Fatalf("Create %s: %v", b, err)
	}

	// a was inserted first, so it sits deeper in the chain; b is the
	// bucket head. Corrupt b's on-disk name to a zero length byte, the
	// exact malformation the source's early-termination bug choked on,
	// then verify the walk skips b and still reaches a behind it.
	hdr, err := vol.readHeader(blockB)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	raw := hdr.b
	raw[hdrByteName] = 0
	updateChecksum(raw, hdrWordChecksum)
	if err := vol.writeRaw(blockB, raw); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}

	entries, err := vol.dirList(RootBlockNum)
	if err != nil {
		t.Fatalf("dirList: %v", err)
	}
	foundA := false
	for _, e := range entries {
		if e.Name == a {
			foundA = true
		}
		if e.Name == "" {
			t.Fatalf("dirList must skip empty-named entries, got one in the results")
		}
	}
	if !foundA {
		t.Fatalf("dirList lost %q after an empty name earlier in the same bucket chain", a)
	}
}
