package http

import (
	"net/http"

	adminusers "labdesk/frontend/adminUsers"
	"labdesk/frontend/allot"
	"labdesk/frontend/assign"
	"labdesk/frontend/calibration"
	"labdesk/frontend/departments"
	"labdesk/frontend/documents"
	exportspage "labdesk/frontend/exports"
	"labdesk/frontend/feedback"
	"labdesk/frontend/help"
	"labdesk/frontend/login"
	"labdesk/frontend/performtest"
	"labdesk/frontend/settings"
	"labdesk/frontend/training"
	"labdesk/infrastructure/rbac"

	"github.com/go-chi/chi/v5"
)

var (
	everyone    = []string{rbac.RoleHOD, rbac.RoleChemist, rbac.RoleReviewer, rbac.RoleFrontDesk}
	labStaff    = []string{rbac.RoleHOD, rbac.RoleChemist}
	sampleDesk  = []string{rbac.RoleHOD, rbac.RoleFrontDesk}
	hodOnly     = []string{rbac.RoleHOD}
	docAuthors  = []string{rbac.RoleHOD, rbac.RoleChemist, rbac.RoleReviewer}
	docDeciders = []string{rbac.RoleHOD, rbac.RoleReviewer}
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.UserCache))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache))
}

// RegisterAdminRoutes registers admin-only routes. Admins bypass RBAC; the
// grants only name the codes for navigation.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_LIST_VIEW", http.MethodGet, "/lab/admin/users")
	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_CREATE", http.MethodPost, "/lab/admin/users")
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB, s.Audit))
	s.Rbac.Add(rbac.RoleAdmin, "ADMIN_USERS_EDIT", http.MethodPost, "/lab/admin/users/update")
	r.Post("/admin/users/update", adminusers.UpdateUserCommandHandler(s.DB, s.Audit, s.SessionCache, s.UserCache))

	s.Rbac.Add(rbac.RoleAdmin, "DEPARTMENTS_CREATE", http.MethodPost, "/lab/departments")
	r.Post("/departments", departments.CreateDepartmentCommandHandler(s.DB, s.DepartmentCache, s.Audit))
	s.Rbac.Add(rbac.RoleAdmin, "DEPARTMENTS_STATUS_EDIT", http.MethodPost, "/lab/departments/*/status")
	r.Post("/departments/{id}/status", departments.UpdateDepartmentStatusCommandHandler(s.DB, s.SessionCache, s.DepartmentCache, s.Audit))
	s.Rbac.Add(rbac.RoleAdmin, "DEPARTMENTS_SYNC", http.MethodPost, "/lab/departments/sync")
	r.Post("/departments/sync", departments.SyncDepartmentsCommandHandler(s.API, s.DB, s.DepartmentCache, s.Audit))
	s.Rbac.Add(rbac.RoleAdmin, "DEPARTMENTS_LOGS_VIEW", http.MethodGet, "/lab/departments/*/logs")
	r.Get("/departments/{id}/logs", departments.DepartmentLogsPageQueryHandler(s.DB))

	s.Rbac.Add(rbac.RoleAdmin, "EXPORTS_VIEW", http.MethodGet, "/lab/exports")
	s.Rbac.Add(rbac.RoleHOD, "EXPORTS_VIEW", http.MethodGet, "/lab/exports")
	r.Get("/exports", exportspage.ExportsPageQueryHandler(s.DB))
	return r
}

// RegisterFrontendRoutes registers authenticated routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.Rbac.Grant(everyone, "LIVE_UPDATES", http.MethodGet, "/lab/ws")
	r.Get("/ws", s.Hub.ServeHTTP)

	s.Rbac.Grant(everyone, "HELP_VIEW", http.MethodGet, "/lab/help")
	r.Get("/help", help.HelpPageQueryHandler(s.RbacCache))

	s.Rbac.Grant(everyone, "SETTINGS_COLUMNS_VIEW", http.MethodGet, "/lab/settings/columns")
	r.Get("/settings/columns", settings.ColumnSettingsPageHandler(s.DB))
	s.Rbac.Grant(everyone, "SETTINGS_COLUMNS_EDIT", http.MethodPost, "/lab/settings/columns")
	r.Post("/settings/columns", settings.ColumnSettingsUpdateHandler(s.DB))

	s.Rbac.Grant(everyone, "DEPARTMENTS_VIEW", http.MethodGet, "/lab/departments")
	r.Get("/departments", departments.DepartmentsPageQueryHandler(s.DB))
	s.Rbac.Grant(everyone, "DEPARTMENTS_ACTIVATE", http.MethodPost, "/lab/departments/*/activate")
	r.Post("/departments/{id}/activate", departments.ActivateDepartmentCommandHandler(s.DB, s.SessionCache, s.Audit))

	s.RegisterAllotRoutes(r)
	s.RegisterAssignRoutes(r)
	s.RegisterTestingRoutes(r)
	s.RegisterCalibrationRoutes(r)
	s.RegisterDocumentRoutes(r)
	s.RegisterTrainingRoutes(r)
	s.RegisterFeedbackRoutes(r)
	return r
}

func (s *Server) RegisterAllotRoutes(r chi.Router) {
	s.Rbac.Grant(sampleDesk, "ALLOT_LIST_VIEW", http.MethodGet, "/lab/allot")
	r.Get("/allot", allot.AllotPageQueryHandler(s.API, s.DB))

	s.Rbac.Grant(sampleDesk, "ALLOT_FORM_VIEW", http.MethodGet, "/lab/allot/*")
	r.Get("/allot/{id}", allot.AllotFormPageQueryHandler(s.API))

	s.Rbac.Grant(sampleDesk, "ALLOT_QUANTITY", http.MethodPost, "/lab/allot/*")
	r.Post("/allot/{id}", allot.AllotQuantityCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(sampleDesk, "ALLOT_REMOVE_ITEM", http.MethodPost, "/lab/allot/*/remove")
	r.Post("/allot/{id}/remove", allot.RemoveItemCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(sampleDesk, "ALLOT_LABEL_VIEW", http.MethodGet, "/lab/allot/*/label")
	r.Get("/allot/{id}/label", allot.SampleLabelPDFHandler(s.API))
}

func (s *Server) RegisterAssignRoutes(r chi.Router) {
	s.Rbac.Grant(labStaff, "HOD_QUEUE_VIEW", http.MethodGet, "/lab/assign")
	r.Get("/assign", assign.AssignPageQueryHandler(s.API, s.DB))

	s.Rbac.Grant(hodOnly, "ASSIGN_FORM_VIEW", http.MethodGet, "/lab/assign/*")
	r.Get("/assign/{id}", assign.AssignFormPageQueryHandler(s.API))

	s.Rbac.Grant(hodOnly, "ASSIGN_CHEMISTS", http.MethodPost, "/lab/assign/*")
	r.Post("/assign/{id}", assign.AssignChemistsCommandHandler(s.API, s.Audit, s.Hub))
}

func (s *Server) RegisterTestingRoutes(r chi.Router) {
	s.Rbac.Grant(everyone, "TESTING_VIEW", http.MethodGet, "/lab/testing/*")
	r.Get("/testing/{id}", performtest.TestingPageQueryHandler(s.API, s.DB))

	s.Rbac.Grant(labStaff, "TESTING_START", http.MethodPost, "/lab/testing/*/events/*/start")
	r.Post("/testing/{id}/events/{event}/start", performtest.StartTestCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(everyone, "TESTING_RESULT_VIEW", http.MethodGet, "/lab/testing/*/events/*/result")
	r.Get("/testing/{id}/events/{event}/result", performtest.ResultFormPageQueryHandler(s.API))

	s.Rbac.Grant(labStaff, "TESTING_RESULT_UPLOAD", http.MethodPost, "/lab/testing/*/events/*/result")
	r.Post("/testing/{id}/events/{event}/result", performtest.UploadResultCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(labStaff, "TESTING_REPORT_VIEW", http.MethodGet, "/lab/testing/*/report")
	r.Get("/testing/{id}/report", performtest.ReportFormPageQueryHandler())

	s.Rbac.Grant(labStaff, "TESTING_REPORT_UPLOAD", http.MethodPost, "/lab/testing/*/report")
	r.Post("/testing/{id}/report", performtest.UploadReportCommandHandler(s.API, s.Audit, s.Hub))
}

func (s *Server) RegisterCalibrationRoutes(r chi.Router) {
	viewers := []string{rbac.RoleHOD, rbac.RoleFrontDesk, rbac.RoleReviewer}

	s.Rbac.Grant(viewers, "CALIBRATION_VIEW", http.MethodGet, "/lab/calibration")
	s.Rbac.Grant(viewers, "CALIBRATION_VIEW", http.MethodGet, "/lab/calibration/instruments/**")
	s.Rbac.Grant(hodOnly, "CALIBRATION_EDIT", http.MethodPost, "/lab/calibration/instruments/**")
	s.Rbac.Grant(hodOnly, "CALIBRATION_POINT_RESOLVE", http.MethodGet, "/lab/calibration/points/*/edit")

	r.Route("/calibration", func(r chi.Router) {
		r.Get("/", calibration.InstrumentsPageQueryHandler(s.API, s.DB))
		r.Get("/points/{point}/edit", calibration.ResolvePointHandler(s.API))

		r.Route("/instruments/{instrument}/prices", func(r chi.Router) {
			r.Get("/", calibration.PricesPageQueryHandler(s.API, s.DB))
			r.Get("/new", calibration.PriceFormPageQueryHandler(s.API))
			r.Post("/", calibration.SavePriceCommandHandler(s.API, s.Audit, s.Hub))
			r.Get("/{price}/edit", calibration.PriceFormPageQueryHandler(s.API))
			r.Post("/{price}", calibration.SavePriceCommandHandler(s.API, s.Audit, s.Hub))

			r.Route("/{price}/matrices", func(r chi.Router) {
				r.Get("/", calibration.MatricesPageQueryHandler(s.API, s.DB))
				r.Get("/new", calibration.MatrixFormPageQueryHandler())
				r.Post("/", calibration.CreateMatrixCommandHandler(s.API, s.Audit, s.Hub))

				r.Route("/{matrix}/points", func(r chi.Router) {
					r.Get("/", calibration.PointsPageQueryHandler(s.API, s.DB))
					r.Get("/new", calibration.PointFormPageQueryHandler(s.API))
					r.Post("/", calibration.SavePointCommandHandler(s.API, s.Audit, s.Hub))
					r.Post("/delete", calibration.DeletePointsCommandHandler(s.API, s.Audit, s.Hub))
					r.Get("/{point}/edit", calibration.PointFormPageQueryHandler(s.API))
					r.Post("/{point}", calibration.SavePointCommandHandler(s.API, s.Audit, s.Hub))
				})
			})
		})
	})
}

func (s *Server) RegisterDocumentRoutes(r chi.Router) {
	s.Rbac.Grant(everyone, "DOCUMENTS_VIEW", http.MethodGet, "/lab/documents")
	r.Get("/documents", documents.DocumentsPageQueryHandler(s.API, s.DB))

	s.Rbac.Grant(docAuthors, "DOCUMENTS_FORM_VIEW", http.MethodGet, "/lab/documents/new")
	r.Get("/documents/new", documents.DocumentFormPageQueryHandler(s.API))
	s.Rbac.Grant(docAuthors, "DOCUMENTS_CREATE", http.MethodPost, "/lab/documents")
	r.Post("/documents", documents.SaveDocumentCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(everyone, "DOCUMENTS_DETAIL_VIEW", http.MethodGet, "/lab/documents/*")
	r.Get("/documents/{id}", documents.DocumentDetailPageQueryHandler(s.API, s.Audit))

	s.Rbac.Grant(docAuthors, "DOCUMENTS_FORM_VIEW", http.MethodGet, "/lab/documents/*/edit")
	r.Get("/documents/{id}/edit", documents.DocumentFormPageQueryHandler(s.API))
	s.Rbac.Grant(docAuthors, "DOCUMENTS_EDIT", http.MethodPost, "/lab/documents/*")
	r.Post("/documents/{id}", documents.SaveDocumentCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(docDeciders, "DOCUMENTS_DECIDE_VIEW", http.MethodGet, "/lab/documents/*/decide")
	r.Get("/documents/{id}/decide", documents.DecidePageQueryHandler(s.API))
	s.Rbac.Grant(docDeciders, "DOCUMENTS_DECIDE", http.MethodPost, "/lab/documents/*/decide")
	r.Post("/documents/{id}/decide", documents.DecideCommandHandler(s.API, s.Audit, s.Hub))
}

func (s *Server) RegisterTrainingRoutes(r chi.Router) {
	s.Rbac.Grant(everyone, "TRAINING_VIEW", http.MethodGet, "/lab/training")
	r.Get("/training", training.TrainingPageQueryHandler(s.API, s.DB))

	s.Rbac.Grant(hodOnly, "TRAINING_FORM_VIEW", http.MethodGet, "/lab/training/new")
	s.Rbac.Grant(hodOnly, "TRAINING_FORM_VIEW", http.MethodGet, "/lab/training/*/edit")
	r.Get("/training/new", training.TrainingFormPageQueryHandler(s.API, s.DB))
	r.Get("/training/{id}/edit", training.TrainingFormPageQueryHandler(s.API, s.DB))

	s.Rbac.Grant(hodOnly, "TRAINING_CREATE", http.MethodPost, "/lab/training")
	r.Post("/training", training.SaveTrainingCommandHandler(s.API, s.Audit, s.Hub))
	s.Rbac.Grant(hodOnly, "TRAINING_EDIT", http.MethodPost, "/lab/training/*")
	r.Post("/training/{id}", training.SaveTrainingCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(hodOnly, "TRAINING_DELETE_BULK", http.MethodPost, "/lab/training/delete")
	r.Post("/training/delete", training.DeleteTrainingCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(hodOnly, "TRAINING_IMPORT_VIEW", http.MethodGet, "/lab/training/import")
	r.Get("/training/import", training.ImportPageQueryHandler())
	s.Rbac.Grant(hodOnly, "TRAINING_IMPORT", http.MethodPost, "/lab/training/import")
	r.Post("/training/import", training.ImportCommandHandler(s.API, s.Audit, s.Hub))
}

func (s *Server) RegisterFeedbackRoutes(r chi.Router) {
	viewers := []string{rbac.RoleHOD, rbac.RoleReviewer, rbac.RoleFrontDesk}

	s.Rbac.Grant(viewers, "FEEDBACK_VIEW", http.MethodGet, "/lab/feedback")
	r.Get("/feedback", feedback.FeedbackPageQueryHandler(s.API, s.DB))

	s.Rbac.Grant([]string{rbac.RoleFrontDesk}, "FEEDBACK_FORM_VIEW", http.MethodGet, "/lab/feedback/new")
	r.Get("/feedback/new", feedback.FeedbackFormPageQueryHandler())
	s.Rbac.Grant([]string{rbac.RoleFrontDesk}, "FEEDBACK_CREATE", http.MethodPost, "/lab/feedback")
	r.Post("/feedback", feedback.AddFeedbackCommandHandler(s.API, s.Audit, s.Hub))

	s.Rbac.Grant(viewers, "FEEDBACK_DETAIL_VIEW", http.MethodGet, "/lab/feedback/*")
	r.Get("/feedback/{id}", feedback.FeedbackDetailPageQueryHandler(s.API))
}
