package processor

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-extract-go/internal/types"
)

// ----- 测试替身 -----

type fakeSpatial struct {
	pages []types.PageText
	err   error
	calls int
}

func (f *fakeSpatial) ExtractPages(ctx context.Context, filePath string) ([]types.PageText, error) {
	f.calls++
	return f.pages, f.err
}

type fakeSequential struct {
	text  string
	err   error
	calls int
}

func (f *fakeSequential) ExtractText(ctx context.Context, filePath string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeRenderer struct {
	images map[int][]byte
	err    error
	// 记录每次请求的页码，nil表示整文档
	requests [][]int
}

func (f *fakeRenderer) RenderPages(ctx context.Context, filePath string, pageIndexes []int) (map[int][]byte, error) {
	f.requests = append(f.requests, pageIndexes)
	if f.err != nil {
		return nil, f.err
	}
	if pageIndexes == nil {
		return f.images, nil
	}
	subset := make(map[int][]byte)
	for _, i := range pageIndexes {
		if img, ok := f.images[i]; ok {
			subset[i] = img
		}
	}
	return subset, nil
}

type fakeOCR struct {
	// 图像内容 -> 识别文本
	byImage  map[string]string
	fileText string
	err      error
	calls    int
}

func (f *fakeOCR) Recognize(ctx context.Context, imageBytes []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.byImage[string(imageBytes)], nil
}

func (f *fakeOCR) RecognizeFile(ctx context.Context, filePath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.fileText, nil
}

func quietAcquirerLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func pageOf(index int, text string) types.PageText {
	return types.PageText{Index: index, Lines: strings.Split(text, "\n"), Text: text}
}

// ----- 测试用例 -----

func TestAcquireUnsupportedKind(t *testing.T) {
	acquirer := NewDefaultTextAcquirer(&fakeSpatial{}, nil, nil, &fakeOCR{}, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "cv.docx", types.FileKind("docx"))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnsupportedFormat, "应返回不支持格式的哨兵错误")
}

func TestAcquirePDFTextLayerSufficient(t *testing.T) {
	longText := strings.Repeat("texte de la page un. ", 5)
	spatial := &fakeSpatial{pages: []types.PageText{pageOf(1, longText), pageOf(2, longText)}}
	ocr := &fakeOCR{}
	acquirer := NewDefaultTextAcquirer(spatial, nil, nil, ocr, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "cv.pdf", types.FileKindPDF)
	require.NoError(t, err)
	assert.Equal(t, SourcePDFText, result.Source)
	assert.Zero(t, ocr.calls, "文本层充足时不应调用OCR")
	assert.Contains(t, result.Text, "texte de la page un")
}

func TestAcquirePDFWeakPageTriggersPartialOCR(t *testing.T) {
	longText := strings.Repeat("page riche en texte. ", 5)
	spatial := &fakeSpatial{pages: []types.PageText{
		pageOf(1, longText),
		pageOf(2, "x"),
	}}
	renderer := &fakeRenderer{images: map[int][]byte{2: []byte("img2")}}
	ocr := &fakeOCR{byImage: map[string]string{"img2": strings.Repeat("texte OCR de la page deux. ", 4)}}
	acquirer := NewDefaultTextAcquirer(spatial, nil, renderer, ocr, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "cv.pdf", types.FileKindPDF)
	require.NoError(t, err)
	assert.Equal(t, SourcePDFMixed, result.Source, "混合了OCR页的结果应标记为混合来源")
	assert.Contains(t, result.Text, "texte OCR de la page deux")
	assert.Contains(t, result.Text, "page riche en texte")
	require.Len(t, renderer.requests, 1)
	assert.Equal(t, []int{2}, renderer.requests[0], "只应渲染弱页")
}

func TestAcquirePDFSpatialFailureFallsBackToSequential(t *testing.T) {
	spatial := &fakeSpatial{err: errors.New("fichier corrompu")}
	sequential := &fakeSequential{text: strings.Repeat("texte séquentiel. ", 10)}
	acquirer := NewDefaultTextAcquirer(spatial, sequential, nil, &fakeOCR{}, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "cv.pdf", types.FileKindPDF)
	require.NoError(t, err, "文档质量问题不应返回错误")
	assert.Equal(t, SourcePDFSequential, result.Source)
	assert.Equal(t, 1, sequential.calls)
}

func TestAcquirePDFWeakSinglePageRescuedByOCR(t *testing.T) {
	spatial := &fakeSpatial{pages: []types.PageText{pageOf(1, "court")}}
	renderer := &fakeRenderer{images: map[int][]byte{1: []byte("img1")}}
	ocr := &fakeOCR{byImage: map[string]string{"img1": strings.Repeat("contenu OCR complet. ", 8)}}
	acquirer := NewDefaultTextAcquirer(spatial, nil, renderer, ocr, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "cv.pdf", types.FileKindPDF)
	require.NoError(t, err)
	assert.Equal(t, SourcePDFMixed, result.Source)
	assert.Contains(t, result.Text, "contenu OCR complet")
}

func TestAcquirePDFSequentialShortTriggersFullOCR(t *testing.T) {
	// 顺序提取只给出碎屑文本，整文档OCR按页序拼接出完整文本
	spatial := &fakeSpatial{err: errors.New("flux corrompu")}
	sequential := &fakeSequential{text: "court"}
	renderer := &fakeRenderer{images: map[int][]byte{1: []byte("img1"), 2: []byte("img2")}}
	ocr := &fakeOCR{byImage: map[string]string{
		"img1": strings.Repeat("première page OCR. ", 4),
		"img2": strings.Repeat("deuxième page OCR. ", 4),
	}}
	acquirer := NewDefaultTextAcquirer(spatial, sequential, renderer, ocr, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "cv.pdf", types.FileKindPDF)
	require.NoError(t, err)
	assert.Equal(t, SourceFullOCR, result.Source)
	assert.Less(t, strings.Index(result.Text, "première"), strings.Index(result.Text, "deuxième"), "OCR文本应按页序拼接")
	require.Len(t, renderer.requests, 1)
	assert.Nil(t, renderer.requests[0], "整文档OCR应请求全部页面")
}

func TestAcquirePDFAllPathsFailDegradesToEmpty(t *testing.T) {
	spatial := &fakeSpatial{err: errors.New("illisible")}
	sequential := &fakeSequential{err: errors.New("illisible aussi")}
	renderer := &fakeRenderer{err: errors.New("rendu impossible")}
	acquirer := NewDefaultTextAcquirer(spatial, sequential, renderer, &fakeOCR{}, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "cv.pdf", types.FileKindPDF)
	require.NoError(t, err, "全链路失败也只降级，不报错")
	assert.Equal(t, SourceEmpty, result.Source)
	assert.Equal(t, "", result.Text)
	assert.NotEmpty(t, result.Reason)
}

func TestAcquireImageDirectOCR(t *testing.T) {
	ocr := &fakeOCR{fileText: "Texte reconnu sur la photo"}
	acquirer := NewDefaultTextAcquirer(&fakeSpatial{}, nil, nil, ocr, WithAcquirerLogger(quietAcquirerLogger()))

	for _, kind := range []types.FileKind{types.FileKindJPG, types.FileKindJPEG, types.FileKindPNG} {
		result, err := acquirer.Acquire(context.Background(), "photo."+string(kind), kind)
		require.NoError(t, err)
		assert.Equal(t, SourceImageOCR, result.Source)
		assert.Equal(t, "Texte reconnu sur la photo", result.Text)
	}
}

func TestAcquireImageOCRFailureDegradesToEmpty(t *testing.T) {
	ocr := &fakeOCR{err: errors.New("tesseract indisponible")}
	acquirer := NewDefaultTextAcquirer(&fakeSpatial{}, nil, nil, ocr, WithAcquirerLogger(quietAcquirerLogger()))

	result, err := acquirer.Acquire(context.Background(), "photo.png", types.FileKindPNG)
	require.NoError(t, err)
	assert.Equal(t, SourceEmpty, result.Source)
	assert.Equal(t, "", result.Text)
}

func TestAcquireThresholdsConfigurable(t *testing.T) {
	// 阈值调低后原本的弱页不再触发OCR
	spatial := &fakeSpatial{pages: []types.PageText{pageOf(1, "texte bref")}}
	ocr := &fakeOCR{}
	acquirer := NewDefaultTextAcquirer(spatial, nil, nil, ocr,
		WithAcquirerLogger(quietAcquirerLogger()),
		WithPageTextThreshold(5),
		WithDocTextThreshold(5),
	)

	result, err := acquirer.Acquire(context.Background(), "cv.pdf", types.FileKindPDF)
	require.NoError(t, err)
	assert.Equal(t, SourcePDFText, result.Source)
	assert.Zero(t, ocr.calls)
}
