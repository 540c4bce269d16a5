package router

import (
	"github.com/labstack/echo/v4"

	"github.com/docstacker/docsign/client/api/http_api/handlers"
	"github.com/docstacker/docsign/client/services"
)

func SetRouter(e *echo.Echo, sp *services.ServiceProvider) {
	h := handlers.NewHTTPApp(sp)

	e.POST("/createSession", h.CreateSession)
	e.GET("/getSession", h.GetSession)
	e.GET("/getSessions", h.GetSessions)
	e.POST("/deleteSession", h.DeleteSession)
	e.POST("/back", h.Back)

	// Upload
	e.POST("/addSigner", h.AddSigner)
	e.POST("/removeSigner", h.RemoveSigner)
	e.POST("/renameSigner", h.RenameSigner)
	e.POST("/stackDocuments", h.StackDocuments)

	// Place fields
	e.GET("/getPageImage", h.GetPageImage)
	e.POST("/setPageImageSize", h.SetPageImageSize)
	e.POST("/addField", h.AddField)
	e.POST("/moveField", h.MoveField)
	e.POST("/deleteField", h.DeleteField)
	e.GET("/getFieldsOnPage", h.GetFieldsOnPage)
	e.GET("/getCoverage", h.GetCoverage)
	e.POST("/pointerDown", h.PointerDown)
	e.POST("/pointerMove", h.PointerMove)
	e.POST("/pointerUp", h.PointerUp)
	e.POST("/autoPlaceFields", h.AutoPlaceFields)
	e.POST("/reloadFields", h.ReloadFields)
	e.POST("/completePlacement", h.CompletePlacement)

	// Sign
	e.GET("/getTypedStyles", h.GetTypedStyles)
	e.POST("/captureFreehand", h.CaptureFreehand)
	e.POST("/captureTyped", h.CaptureTyped)
	e.POST("/clearSignature", h.ClearSignature)
	e.POST("/nextSigner", h.NextSigner)
	e.POST("/previousSigner", h.PreviousSigner)
	e.POST("/selectSigner", h.SelectSigner)
	e.POST("/resign", h.ReSign)
	e.GET("/getSigningStatus", h.GetSigningStatus)
	e.POST("/completeSigning", h.CompleteSigning)

	// Download
	e.POST("/finalizeDocument", h.FinalizeDocument)
	e.GET("/getDownloadURL", h.GetDownloadURL)
	e.GET("/getDownloadQR", h.GetDownloadQR)

	e.GET("/getAuditLog", h.GetAuditLog)
	e.GET("/getFSMGraph", h.GetFSMGraph)
}
