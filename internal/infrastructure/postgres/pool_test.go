package postgres

import (
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salon-api/pkg/config"
)

func TestNewPoolConfig_Dimensionado(t *testing.T) {
	pc, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://salon@db:5432/salon?sslmode=disable"})
	require.NoError(t, err)
	assert.Equal(t, int32(25), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.NotNil(t, pc.AfterConnect)
	assert.Equal(t, "db", pc.ConnConfig.Host)

	pc, err = newPoolConfig(config.DBConfig{DatabaseURL: "postgres://salon@db/salon", MaxConns: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
}

func TestNewPoolConfig_ForceIPv4(t *testing.T) {
	base, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://salon@db/salon"})
	require.NoError(t, err)

	forced, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://salon@db/salon", ForceIPv4: true})
	require.NoError(t, err)
	require.NotNil(t, forced.ConnConfig.DialFunc)

	// Sin la opción queda el dialer por defecto de pgx; con ella, el de tcp4.
	assert.NotEqual(t, funcName(base.ConnConfig.DialFunc), funcName(forced.ConnConfig.DialFunc))
	assert.Contains(t, funcName(forced.ConnConfig.DialFunc), "dialTCP4")
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}

func funcName(f any) string {
	return runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
}
