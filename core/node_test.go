package core

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"campusledger/config"
	"campusledger/native/fees"
	"campusledger/native/registry"
	"campusledger/native/token"
	"campusledger/storage"
)

func testAddr(fill byte) [20]byte {
	var addr [20]byte
	copy(addr[:], bytes.Repeat([]byte{fill}, 20))
	return addr
}

func addrHex(addr [20]byte) string {
	return hex.EncodeToString(addr[:])
}

var (
	adminAddr      = testAddr(0xAD)
	universityAddr = testAddr(0x07)
	aliceAddr      = testAddr(0x01)
	bobAddr        = testAddr(0x02)
	shopAddr       = testAddr(0x03)
)

func testConfig() *config.Config {
	return &config.Config{
		ListenAddress:     ":0",
		CampusName:        "campus-test",
		Env:               "test",
		AdminAddress:      addrHex(adminAddr),
		UniversityAddress: addrHex(universityAddr),
		GenesisFeeBps:     100,
		GenesisStudents:   []string{addrHex(aliceAddr), addrHex(bobAddr)},
		GenesisProviders: []config.GenesisProvider{
			{Address: addrHex(shopAddr), Name: "Print Shop", Category: "printing"},
		},
	}
}

func newTestNode(t *testing.T, db storage.Database) *Node {
	t.Helper()
	node, err := NewNode(db, testConfig(), nil, nil)
	require.NoError(t, err)
	return node
}

func TestGenesisBootstrap(t *testing.T) {
	db := storage.NewMemDB()
	node := newTestNode(t, db)

	student, ok, err := node.Student(aliceAddr)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, student.Active)
	require.Zero(t, student.TotalSpent.Sign())

	provider, ok, err := node.Provider(shopAddr)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Print Shop", provider.Name)

	bps, err := node.FeePercentage()
	require.NoError(t, err)
	require.Equal(t, uint32(100), bps)

	// A reboot over the same database must not reapply genesis.
	require.NoError(t, node.RemoveStudent(adminAddr, aliceAddr))
	rebooted := newTestNode(t, db)
	student, ok, err = rebooted.Student(aliceAddr)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, student.Active)
}

func TestMintTransferBurn(t *testing.T) {
	node := newTestNode(t, storage.NewMemDB())

	require.NoError(t, node.Mint(adminAddr, aliceAddr, big.NewInt(100)))
	require.ErrorIs(t, node.Mint(aliceAddr, aliceAddr, big.NewInt(1)), registry.ErrNotAdmin)
	require.ErrorIs(t, node.Mint(adminAddr, testAddr(0x09), big.NewInt(1)), registry.ErrStudentNotActive)

	require.NoError(t, node.Transfer(aliceAddr, bobAddr, big.NewInt(40)))
	// Non-students cannot receive transfers, providers included.
	require.ErrorIs(t, node.Transfer(aliceAddr, shopAddr, big.NewInt(1)), registry.ErrStudentNotActive)

	require.NoError(t, node.Burn(bobAddr, big.NewInt(15)))
	require.ErrorIs(t, node.Burn(bobAddr, big.NewInt(26)), token.ErrInsufficientBalance)

	aliceBalance, err := node.BalanceOf(aliceAddr)
	require.NoError(t, err)
	require.EqualValues(t, 60, aliceBalance.Int64())
	bobBalance, err := node.BalanceOf(bobAddr)
	require.NoError(t, err)
	require.EqualValues(t, 25, bobBalance.Int64())
}

func TestPaymentEndToEnd(t *testing.T) {
	node := newTestNode(t, storage.NewMemDB())

	require.NoError(t, node.AddService(shopAddr, 1, "Poster Print", big.NewInt(100)))
	require.NoError(t, node.Mint(adminAddr, aliceAddr, big.NewInt(300)))

	require.NoError(t, node.PayForService(aliceAddr, shopAddr, 1))

	providerBalance, err := node.BalanceOf(shopAddr)
	require.NoError(t, err)
	require.EqualValues(t, 99, providerBalance.Int64())
	universityBalance, err := node.BalanceOf(universityAddr)
	require.NoError(t, err)
	require.EqualValues(t, 1, universityBalance.Int64())

	student, ok, err := node.Student(aliceAddr)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 100, student.TotalSpent.Int64())

	// Raising the fee applies to the next payment only.
	require.NoError(t, node.SetFeePercentage(adminAddr, 1000))
	require.ErrorIs(t, node.SetFeePercentage(adminAddr, 1001), fees.ErrBpsOutOfRange)
	require.ErrorIs(t, node.SetFeePercentage(aliceAddr, 200), registry.ErrNotAdmin)

	require.NoError(t, node.PayForService(aliceAddr, shopAddr, 1))
	providerBalance, err = node.BalanceOf(shopAddr)
	require.NoError(t, err)
	require.EqualValues(t, 99+90, providerBalance.Int64())
	universityBalance, err = node.BalanceOf(universityAddr)
	require.NoError(t, err)
	require.EqualValues(t, 1+10, universityBalance.Int64())
}

func TestPaymentAtomicity(t *testing.T) {
	node := newTestNode(t, storage.NewMemDB())

	require.NoError(t, node.AddService(shopAddr, 1, "Poster Print", big.NewInt(100)))
	require.NoError(t, node.Mint(adminAddr, aliceAddr, big.NewInt(50)))

	err := node.PayForService(aliceAddr, shopAddr, 1)
	require.ErrorIs(t, err, token.ErrInsufficientBalance)

	// The failed payment must leave no trace: no spend bookkeeping, no
	// partial transfer to the university.
	student, ok, err := node.Student(aliceAddr)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, student.TotalSpent.Sign())
	aliceBalance, err := node.BalanceOf(aliceAddr)
	require.NoError(t, err)
	require.EqualValues(t, 50, aliceBalance.Int64())
	universityBalance, err := node.BalanceOf(universityAddr)
	require.NoError(t, err)
	require.Zero(t, universityBalance.Sign())
}

func TestServiceLifecycle(t *testing.T) {
	node := newTestNode(t, storage.NewMemDB())

	require.NoError(t, node.AddService(shopAddr, 1, "Poster Print", big.NewInt(100)))
	require.NoError(t, node.SetServiceDiscount(shopAddr, 1, 50))
	require.NoError(t, node.Mint(adminAddr, aliceAddr, big.NewInt(100)))
	require.NoError(t, node.PayForService(aliceAddr, shopAddr, 1))

	// 100 at 50% discount = 50; the 1% fee truncates to zero, so the
	// provider receives the full 50.
	providerBalance, err := node.BalanceOf(shopAddr)
	require.NoError(t, err)
	require.EqualValues(t, 50, providerBalance.Int64())

	require.NoError(t, node.RemoveService(shopAddr, 1))
	require.Error(t, node.PayForService(aliceAddr, shopAddr, 1))

	service, err := node.GetService(shopAddr, 1)
	require.NoError(t, err)
	require.False(t, service.Active)
	require.Equal(t, "Poster Print", service.Name)
}

func TestRateProviderThroughNode(t *testing.T) {
	node := newTestNode(t, storage.NewMemDB())

	require.NoError(t, node.RateProvider(aliceAddr, shopAddr, 5))
	require.NoError(t, node.RateProvider(bobAddr, shopAddr, 4))
	require.Error(t, node.RateProvider(aliceAddr, shopAddr, 1))

	avg, count, err := node.ProviderAverageRating(shopAddr)
	require.NoError(t, err)
	require.EqualValues(t, 4, avg)
	require.EqualValues(t, 2, count)
}

func TestAirdropThroughNode(t *testing.T) {
	node := newTestNode(t, storage.NewMemDB())

	require.NoError(t, node.RemoveStudent(adminAddr, bobAddr))
	require.NoError(t, node.AirdropStudents(adminAddr, [][20]byte{aliceAddr, bobAddr}, big.NewInt(10)))
	require.Error(t, node.AirdropStudents(aliceAddr, [][20]byte{aliceAddr}, big.NewInt(10)))

	aliceBalance, err := node.BalanceOf(aliceAddr)
	require.NoError(t, err)
	require.EqualValues(t, 10, aliceBalance.Int64())
	bobBalance, err := node.BalanceOf(bobAddr)
	require.NoError(t, err)
	require.Zero(t, bobBalance.Sign())
}
