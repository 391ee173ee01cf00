package notify

import (
	"bytes"
	"html/template"

	"retail-insights/internal/model"
)

// ReportSubject is the subject line of the trending products e-mail.
const ReportSubject = "📈 Today's Trending Products Report"

var reportTemplate = template.Must(template.New("report").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">
  <h2 style="color: #2c3e50;">Hi <span style="color: #2980b9;">{{.Name}}</span>,</h2>
  <p style="font-size: 16px; color: #333;">Here's your daily insight on trending products to help drive your sales strategy.</p>
  <div style="margin: 20px 0; padding: 15px; background-color: #d1ecf1; border-left: 6px solid #17a2b8;">
    <strong style="font-size: 18px;">🚀 Top Trending Product:</strong>
    <span style="color: #0c5460; font-weight: bold;">{{.Top.Name}}</span> with a trend score of
    <strong>{{printf "%.2f" .Top.TrendScore}}</strong> and expected sales of
    <strong>{{printf "%.2f" .Top.ExpectedSales}}</strong> units!
  </div>
  <h3 style="color: #333;">📊 Full Product Trend Report</h3>
  <table style="width: 100%; border-collapse: collapse; background-color: #fff; font-size: 14px;">
    <thead style="background-color: #343a40; color: white;">
      <tr>
        <th style="padding: 10px; border: 1px solid #ddd;">Product Name</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Trend Label</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Predicted Label</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Trend Score</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Expected Sales</th>
        <th style="padding: 10px; border: 1px solid #ddd;">Confidence (%)</th>
      </tr>
    </thead>
    <tbody>
{{- range .Products}}
      <tr style="{{if eq .Name $.Top.Name}}background-color: #fff3cd; font-weight: bold;{{else}}background-color: #ffffff; font-weight: normal;{{end}}">
        <td style="padding: 8px; border: 1px solid #ddd;">{{.Name}}</td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.TrendLabel}}</td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.PredictedLabel}}</td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{printf "%.2f" .TrendScore}}</td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{printf "%.2f" .ExpectedSales}}</td>
        <td style="padding: 8px; border: 1px solid #ddd;">{{.Confidence}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>
  <p style="color: #6c757d; font-size: 13px; margin-top: 30px;">Let's aim for higher sales today. Stay smart and stay ahead.</p>
</div>
`))

type reportView struct {
	Name     string
	Top      model.TrendRecord
	Products []model.TrendRecord
}

// RenderReport renders the trending report addressed to recipientName.
func RenderReport(recipientName string, report *model.TrendingReport) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, reportView{
		Name:     recipientName,
		Top:      report.Top,
		Products: report.Products,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
