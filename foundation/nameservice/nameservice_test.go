package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestNameService(t *testing.T) {
	t.Log("Given the need to name wallet addresses.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen reading a folder of key files.", testID)
		{
			root := t.TempDir()

			kp, err := keypair.Generate()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to generate a key : %v", failed, testID, err)
			}
			if err := kp.Save(filepath.Join(root, "alice"+nameservice.KeyExtension)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save the key : %v", failed, testID, err)
			}
			if err := os.WriteFile(filepath.Join(root, "README"), []byte("ignored"), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write a file : %v", failed, testID, err)
			}

			ns, err := nameservice.New(root)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the folder : %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to read the folder.", success, testID)

			if name := ns.Lookup(kp.PublicKey); name != "alice" {
				t.Fatalf("\t%s\tTest %d:\tShould find the name, got %q.", failed, testID, name)
			}
			if addr, ok := ns.Address("alice"); !ok || addr != kp.PublicKey {
				t.Fatalf("\t%s\tTest %d:\tShould find the address.", failed, testID)
			}
			if len(ns.Copy()) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould ignore files that are not keys.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould map names and addresses.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the folder does not exist.", testID)
		{
			ns, err := nameservice.New(filepath.Join(t.TempDir(), "missing"))
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould not fail : %v", failed, testID, err)
			}
			if len(ns.Copy()) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould be empty.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an empty name service.", success, testID)
		}
	}
}
