package i18n

// Message keys shared by handlers and templates.
const (
	KeyNoticeCreated      = "items.notice.created"
	KeyNoticeUpdated      = "items.notice.updated"
	KeyNoticeDeleted      = "items.notice.deleted"
	KeyErrorTitleRequired = "items.error.title_required"

	KeyPageTitle         = "items.page.title"
	KeyPageEmpty         = "items.page.empty"
	KeyFilterAll         = "items.filter.all"
	KeyFilterSearch      = "items.filter.search"
	KeyFilterSubmit      = "items.filter.submit"
	KeyFormTitle         = "items.form.title"
	KeyFormDescription   = "items.form.description"
	KeyFormStatus        = "items.form.status"
	KeyActionCreate      = "items.action.create"
	KeyActionSave        = "items.action.save"
	KeyActionToggle      = "items.action.toggle"
	KeyActionDelete      = "items.action.delete"
	KeyStatusActive      = "items.status.active"
	KeyStatusCompleted   = "items.status.completed"
	KeyStatusArchived    = "items.status.archived"
	KeyErrorPageTitle    = "items.error.page_title"
	KeyErrorPageBackLink = "items.error.back"
)

var catalogs = map[string]map[string]string{
	"en-US": {
		KeyNoticeCreated:      "Item created successfully.",
		KeyNoticeUpdated:      "Item updated.",
		KeyNoticeDeleted:      "Item deleted.",
		KeyErrorTitleRequired: "Title is required.",
		KeyPageTitle:          "Items",
		KeyPageEmpty:          "No items yet.",
		KeyFilterAll:          "All",
		KeyFilterSearch:       "Search",
		KeyFilterSubmit:       "Filter",
		KeyFormTitle:          "Title",
		KeyFormDescription:    "Description",
		KeyFormStatus:         "Status",
		KeyActionCreate:       "Add item",
		KeyActionSave:         "Save",
		KeyActionToggle:       "Toggle",
		KeyActionDelete:       "Delete",
		KeyStatusActive:       "Active",
		KeyStatusCompleted:    "Completed",
		KeyStatusArchived:     "Archived",
		KeyErrorPageTitle:     "Something went wrong",
		KeyErrorPageBackLink:  "Back to items",
	},
	"pt-BR": {
		KeyNoticeCreated:      "Item criado com sucesso.",
		KeyNoticeUpdated:      "Item atualizado.",
		KeyNoticeDeleted:      "Item removido.",
		KeyErrorTitleRequired: "O título é obrigatório.",
		KeyPageTitle:          "Itens",
		KeyPageEmpty:          "Nenhum item ainda.",
		KeyFilterAll:          "Todos",
		KeyFilterSearch:       "Buscar",
		KeyFilterSubmit:       "Filtrar",
		KeyFormTitle:          "Título",
		KeyFormDescription:    "Descrição",
		KeyFormStatus:         "Situação",
		KeyActionCreate:       "Adicionar item",
		KeyActionSave:         "Salvar",
		KeyActionToggle:       "Alternar",
		KeyActionDelete:       "Excluir",
		KeyStatusActive:       "Ativo",
		KeyStatusCompleted:    "Concluído",
		KeyStatusArchived:     "Arquivado",
		KeyErrorPageTitle:     "Algo deu errado",
		KeyErrorPageBackLink:  "Voltar aos itens",
	},
}
