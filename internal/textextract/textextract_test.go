package textextract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docxFixture(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFromFile_UnsupportedExtension(t *testing.T) {
	_, err := FromFile("resume.png", []byte("data"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFromFile_ExtensionIsCaseInsensitive(t *testing.T) {
	text, err := FromFile("RESUME.TXT", []byte("Jane Smith\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", text)
}

func TestFromTXT_UTF8(t *testing.T) {
	text, err := FromTXT([]byte("Jürgen Müller\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jürgen Müller\n", text)
}

func TestFromTXT_Latin1Fallback(t *testing.T) {
	// 0xE9 is "é" in Latin-1 and invalid as a standalone UTF-8 byte.
	text, err := FromTXT([]byte{'r', 0xE9, 's', 'u', 'm', 0xE9})
	require.NoError(t, err)
	assert.Equal(t, "résumé", text)
}

func TestFromTXT_Empty(t *testing.T) {
	_, err := FromTXT([]byte("   \n\t"))
	assert.Error(t, err)
}

func TestFromDOCX_ExtractsParagraphs(t *testing.T) {
	data := docxFixture(t, `<w:document><w:body><w:p><w:r><w:t>Jane Smith</w:t></w:r></w:p><w:p><w:r><w:t>Engineer</w:t></w:r></w:p></w:body></w:document>`)

	text, err := FromDOCX(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Smith\n")
	assert.Contains(t, text, "Engineer\n")
}

func TestFromDOCX_PreservesTabs(t *testing.T) {
	data := docxFixture(t, `<w:p><w:r><w:t>Name</w:t><w:tab/><w:t>Jane</w:t></w:r></w:p>`)

	text, err := FromDOCX(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Name\tJane")
}

func TestFromDOCX_MissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = FromDOCX(buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestFromDOCX_NotAZip(t *testing.T) {
	_, err := FromDOCX([]byte("plain text pretending to be a docx"))
	assert.Error(t, err)
}

func TestFromPDF_Garbage(t *testing.T) {
	_, err := FromPDF([]byte("not a pdf at all"))
	assert.Error(t, err)
}

func TestClean_NormalizesWhitespace(t *testing.T) {
	in := "Jane  Smith\r\n\r\n\r\n\r\nEngineer   at   Acme\r\n"
	assert.Equal(t, "Jane Smith\n\nEngineer at Acme", Clean(in))
}

func TestClean_DropsControlCharacters(t *testing.T) {
	assert.Equal(t, "JaneSmith", Clean("Jane\x00\x07Smith"))
}

func TestClean_TrimsLines(t *testing.T) {
	assert.Equal(t, "Jane Smith\nEngineer", Clean("   Jane Smith   \n   Engineer   "))
}

func TestClean_IsIdempotent(t *testing.T) {
	in := "  Jane  Smith \r\n\r\n\r\nEngineer\tat Acme \x07\n"
	once := Clean(in)
	assert.Equal(t, once, Clean(once))
}

func TestClean_Empty(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "", Clean(" \n \n "))
}
