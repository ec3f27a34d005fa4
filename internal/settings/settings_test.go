package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_ReadDotenv(t *testing.T) {
	t.Run("success - .env file is read into env variables", func(t *testing.T) {
		// arrange
		testDotEnvFile := ".env.test"
		f, err := os.Create(testDotEnvFile)
		if err != nil {
			t.Error(err)
		}
		lines := []string{
			`#COMMENTED=asdf`,
			`CONVEYOR_TEST=1234`,
			``,
			`CONVEYOR_TEST2= 2345 `,
		}
		for _, line := range lines {
			f.Write([]byte(line + "\n"))
		}
		f.Close()
		defer os.Remove(testDotEnvFile)

		// act
		ReadDotenv(testDotEnvFile)

		// assert
		assert.Equal(t, os.Getenv("CONVEYOR_TEST"), "1234")
		assert.Equal(t, os.Getenv("CONVEYOR_TEST2"), "2345")
	})

	t.Run("missing .env file is not an error", func(t *testing.T) {
		ReadDotenv(".env.does.not.exist")
	})
}

func TestSettings_SQLiteDbString(t *testing.T) {
	t.Run("readonly connection string", func(t *testing.T) {
		s := &AppSettings{SQLiteDatabase: "file:.///db.sqlite"}
		dbString := s.SQLiteDbString(true)
		assert.Contains(t, dbString, "mode=ro")
		assert.NotContains(t, dbString, "_txlock")
	})

	t.Run("read-write connection string", func(t *testing.T) {
		s := &AppSettings{SQLiteDatabase: "file:.///db.sqlite"}
		dbString := s.SQLiteDbString(false)
		assert.Contains(t, dbString, "mode=rwc")
		assert.Contains(t, dbString, "_txlock=IMMEDIATE")
	})
}
