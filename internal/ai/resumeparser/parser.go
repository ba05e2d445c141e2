// Package resumeparser implements a resume.Parser on top of OpenAI vision
// models. PDF pages are rendered to images and sent in a single request.
package resumeparser

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/internal/pdf"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/metrics"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const backendName = "openai_vision"

const textLayerLimit = 12000

const systemPrompt = `You are a professional resume parser. Extract ALL information from the resume images and return ONLY valid JSON.`

const userPrompt = `Extract all information from this resume in the following JSON structure:

{
  "personal_info": {
    "name": string,
    "email": string,
    "phone": string,
    "address": string,
    "linkedin": string (optional),
    "github": string (optional)
  },
  "skills": string[] (technical and soft skills, one per entry),
  "work_experience": [{
    "title": string,
    "company": string,
    "start_date": string (YYYY-MM format),
    "end_date": string (YYYY-MM or "Present"),
    "description": string
  }],
  "education": [{
    "title": string,
    "institute": string,
    "location": string,
    "start_date": string (YYYY-MM),
    "end_date": string (YYYY-MM)
  }],
  "languages": string[],
  "certificates": string[]
}

If a field is not available, omit it. Combine information from all pages. Return ONLY the JSON.`

// VisionParser is a resume.Parser backed by an OpenAI vision model.
type VisionParser struct {
	client   *openai.Client
	model    string
	maxPages int
}

func NewVisionParser(apiKey, model string, maxPages int, opts ...option.RequestOption) *VisionParser {
	if model == "" {
		model = "gpt-4o"
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &VisionParser{client: &client, model: model, maxPages: maxPages}
}

func (p *VisionParser) Name() string { return backendName }

func (p *VisionParser) Parse(ctx context.Context, doc resume.Document) (*resume.ParsedResume, error) {
	start := time.Now()
	parsed, err := p.parse(ctx, doc)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ParserLatency.WithLabelValues(backendName, status).Observe(time.Since(start).Seconds())
	return parsed, err
}

func (p *VisionParser) parse(ctx context.Context, doc resume.Document) (*resume.ParsedResume, error) {
	pages, err := p.pages(doc)
	if err != nil {
		return nil, err
	}

	contentParts := []openai.ChatCompletionContentPartUnionParam{
		{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Type: constant.Text("text"),
				Text: userPrompt,
			},
		},
	}
	for i, page := range pages {
		dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(page)
		contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
			OfImageURL: &openai.ChatCompletionContentPartImageParam{
				Type: constant.ImageURL("image_url"),
				ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
					URL:    dataURL,
					Detail: "high",
				},
			},
		})
		if i < len(pages)-1 {
			contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{
					Type: constant.Text("text"),
					Text: fmt.Sprintf("--- Page %d ends, Page %d begins ---", i+1, i+2),
				},
			})
		}
	}
	if layer := p.textLayer(doc); layer != "" {
		contentParts = append(contentParts, openai.ChatCompletionContentPartUnionParam{
			OfText: &openai.ChatCompletionContentPartTextParam{
				Type: constant.Text("text"),
				Text: "Embedded text layer of the document:\n" + layer,
			},
		})
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: contentParts,
					},
				},
			},
		},
		Model: p.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(6000),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, resume.ErrParserTimeout().WithCause(err).WithDetail("backend", backendName)
		}
		return nil, resume.ErrParseFailed().WithCause(err).WithDetail("backend", backendName)
	}
	if len(completion.Choices) == 0 {
		return nil, resume.ErrParseFailed().WithDetail("reason", "no choices returned")
	}

	content := completion.Choices[0].Message.Content
	logx.Debug("vision parser response", logx.String("content", logx.Truncate(content, 200)))
	return resume.DecodeParsedResume([]byte(content)), nil
}

// pages renders doc to JPEG page images.
func (p *VisionParser) pages(doc resume.Document) ([][]byte, error) {
	fileType, ok := doc.Type()
	if !ok {
		return nil, resume.ErrUnsupportedFileType().WithDetail("content_type", doc.ContentType)
	}

	switch fileType {
	case resume.FileTypePDF:
		pages, err := pdf.ConvertPDFToImages(doc.Data, p.maxPages)
		if err != nil {
			return nil, resume.ErrFileReadFailed().WithCause(err)
		}
		if len(pages) == 0 {
			return nil, resume.ErrParserRejected().WithDetail("reason", "document has no pages")
		}
		return pages, nil
	case resume.FileTypeJPEG, resume.FileTypePNG:
		img, err := pdf.ConvertImageToJPEG(doc.Data)
		if err != nil {
			return nil, resume.ErrFileReadFailed().WithCause(err)
		}
		return [][]byte{img}, nil
	default:
		return nil, resume.ErrUnsupportedFileType().
			WithDetail("file_type", string(fileType)).
			WithDetail("backend", backendName)
	}
}

// textLayer returns the PDF text layer, trimmed to textLayerLimit. Scanned
// documents and images have none.
func (p *VisionParser) textLayer(doc resume.Document) string {
	if fileType, _ := doc.Type(); fileType != resume.FileTypePDF {
		return ""
	}
	text, err := pdf.ExtractText(doc.Data, p.maxPages)
	if err != nil {
		logx.Debug("pdf text layer unavailable", logx.Err(err))
		return ""
	}
	return logx.Truncate(strings.TrimSpace(text), textLayerLimit)
}
