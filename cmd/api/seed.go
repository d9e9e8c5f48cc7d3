package api

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	common "github.com/metabuildlab/lims/pkg/common"
	"github.com/metabuildlab/lims/pkg/common/code"
	identifier "github.com/metabuildlab/lims/pkg/core/identifier"
	corePricing "github.com/metabuildlab/lims/pkg/core/pricing"
	pricingSvc "github.com/metabuildlab/lims/pkg/core/pricing/pricing"
	auth "github.com/metabuildlab/lims/pkg/middleware/auth"
	"github.com/metabuildlab/lims/pkg/middleware/db"
	model "github.com/metabuildlab/lims/pkg/model"
	repo "github.com/metabuildlab/lims/pkg/repo"
	repoAccount "github.com/metabuildlab/lims/pkg/repo/account"
	repoClient "github.com/metabuildlab/lims/pkg/repo/client"
	repoPricing "github.com/metabuildlab/lims/pkg/repo/pricing"
	repoSample "github.com/metabuildlab/lims/pkg/repo/sample"
)

// NewSeed 写入开发环境演示数据，可重复执行
func NewSeed() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:          "seed",
		Long:         "Seed demo users, clients, catalog and samples for development",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			initDB(cmd.Context())
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Root().Context(), password)
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "lims-dev-2025", "password for all seeded accounts")
	return cmd
}

type seedUser struct {
	username   string
	fullName   string
	role       common.Role
	department string
}

type seedClient struct {
	name    string
	contact string
	address string
	phone   string
	email   string
	regNum  string
}

var seedUsers = []seedUser{
	{"director", "Alice Namutebi", common.RoleDirector, "Management"},
	{"labmanager", "Brian Okello", common.RoleLabManager, "Laboratory"},
	{"frontdesk", "Catherine Nakato", common.RoleOfficeStaff, "Front Office"},
	{"tech.moses", "Moses Otim", common.RoleTechnician, "Materials Lab"},
	{"tech.grace", "Grace Aliro", common.RoleTechnician, "Materials Lab"},
}

var seedClients = []seedClient{
	{"Kampala Construction Ltd", "James Mulindwa", "Plot 45, Industrial Area, Kampala", "+256 700 123456", "info@kampalaconst.co.ug", "800123456789"},
	{"Mukono Builders", "Sarah Nakato", "Main Street, Mukono", "+256 700 234567", "contact@mukonobuilders.ug", "800234567890"},
	{"Jinja Engineering Solutions", "Peter Okello", "Highway Road, Jinja", "+256 700 345678", "info@jinjaengineering.ug", "800345678901"},
	{"Entebbe Materials Supply", "Grace Nalubega", "Airport Road, Entebbe", "+256 700 456789", "sales@entebbematerials.ug", "800456789012"},
	{"Masaka Civil Works", "David Ssemwogerere", "Mbarara Road, Masaka", "+256 700 567890", "info@masakacivil.ug", "800567890123"},
	{"Gulu Development Corporation", "Joseph Ocen", "Acholi Road, Gulu", "+256 700 789012", "info@guludev.ug", "800789012345"},
	{"Hoima Oil & Gas Services", "Michael Byaruhanga", "Buliisa Road, Hoima", "+256 701 890123", "contact@hoimaoil.ug", "801890123456"},
	{"Mbarara Civil Engineering", "Agnes Tushabe", "Rwizi Road, Mbarara", "+256 700 012345", "contact@mbararacivil.ug", "800012345678"},
}

var seedCatalog = []*corePricing.SaveTestItemReq{
	{SystemCode: "SOIL-PHY-001", DisplayCode: "S1", CategoryCode: "SOIL", CategoryName: "Soil - Laboratory tests", SubCategory: "Physical Properties", TestName: "Moisture Content", MethodStandard: "BS 1377-2", Unit: "per test", Price: "35000", TATDays: 2, SampleType: "Soil"},
	{SystemCode: "SOIL-PHY-002", DisplayCode: "S2", CategoryCode: "SOIL", CategoryName: "Soil - Laboratory tests", SubCategory: "Physical Properties", TestName: "Atterberg Limits", MethodStandard: "BS 1377-2", Unit: "per test", Price: "80000", TATDays: 3, SampleType: "Soil"},
	{SystemCode: "SOIL-COMP-001", DisplayCode: "S5", CategoryCode: "SOIL", CategoryName: "Soil - Laboratory tests", SubCategory: "Compaction", TestName: "Proctor Compaction", MethodStandard: "BS 1377-4", Unit: "per test", Price: "150000", TATDays: 4, SampleType: "Soil"},
	{SystemCode: "CONC-STR-001", DisplayCode: "C1", CategoryCode: "CONC", CategoryName: "Concrete - Laboratory tests", SubCategory: "Strength", TestName: "Compressive Strength (Cube)", MethodStandard: "BS EN 12390-3", Unit: "per cube", Price: "25000", TATDays: 1, SampleType: "Concrete"},
	{SystemCode: "CONC-STR-002", DisplayCode: "C2", CategoryCode: "CONC", CategoryName: "Concrete - Laboratory tests", SubCategory: "Strength", TestName: "Flexural Strength (Beam)", MethodStandard: "BS EN 12390-5", Unit: "per beam", Price: "60000", TATDays: 2, SampleType: "Concrete"},
	{SystemCode: "STEEL-TEN-001", DisplayCode: "ST1", CategoryCode: "STEEL", CategoryName: "Steel - Laboratory tests", SubCategory: "Tensile", TestName: "Tensile Strength (Rebar)", MethodStandard: "BS 4449", Unit: "per bar", Price: "50000", TATDays: 2, SampleType: "Steel"},
	{SystemCode: "WATER-CHEM-001", DisplayCode: "W1", CategoryCode: "WATER", CategoryName: "Water - Laboratory tests", SubCategory: "Chemical", TestName: "pH and Conductivity", MethodStandard: "APHA 4500", Unit: "per sample", Price: "40000", TATDays: 1, SampleType: "Water"},
}

func runSeed(ctx context.Context, password string) error {
	accountStore := repoAccount.NewAccountRepo()
	clientStore := repoClient.NewClientRepo()
	sampleStore := repoSample.NewSampleRepo()
	pricingCore := pricingSvc.New()
	idGen := identifier.New()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	users := map[common.Role][]*model.User{}
	for _, su := range seedUsers {
		user, err := accountStore.GetUserByUsername(ctx, su.username)
		if err == nil {
			users[user.Role] = append(users[user.Role], user)
			continue
		}
		if code.FromError(err).Code() != code.UserNotFound.Code() {
			return err
		}

		user = &model.User{
			Username:     su.username,
			PasswordHash: hash,
			FullName:     su.fullName,
			Email:        su.username + "@metabuildlab.ug",
			Department:   su.department,
			Role:         su.role,
			IsActive:     true,
		}
		if err := accountStore.CreateUser(ctx, user); err != nil {
			return err
		}
		users[user.Role] = append(users[user.Role], user)
		fmt.Printf("created user %s (%s)\n", su.username, su.role)
	}

	clients := make([]*model.Client, 0, len(seedClients))
	for _, sc := range seedClients {
		name := sc.name
		existing, _, err := clientStore.ListClients(ctx, repo.ClientQuery{NameLike: &name, Limit: 1})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			clients = append(clients, existing[0])
			continue
		}

		client := &model.Client{
			Name:                sc.name,
			ContactPerson:       sc.contact,
			Email:               sc.email,
			Phone:               sc.phone,
			Address:             sc.address,
			CompanyRegistration: sc.regNum,
			IsActive:            true,
		}
		if err := clientStore.CreateClient(ctx, client); err != nil {
			return err
		}
		clients = append(clients, client)
	}
	fmt.Printf("seeded %d clients\n", len(clients))

	importResp, err := pricingCore.ImportPriceList(ctx, &corePricing.ImportReq{Rows: seedCatalog})
	if err != nil {
		return err
	}
	fmt.Printf("seeded catalog: %d categories, %d items\n", importResp.Categories, importResp.Items)

	receiver := users[common.RoleOfficeStaff]
	if len(receiver) == 0 {
		return code.UserNotFound.WithMsg("no office staff to receive samples")
	}

	items, _, err := repoPricing.NewPricingRepo().ListTestItems(ctx, repo.TestItemQuery{
		ActiveOnly: true,
		Limit:      200,
	})
	if err != nil {
		return err
	}

	sampleTypes := []string{"Soil", "Concrete", "Steel", "Water"}
	created := 0
	for idx, client := range clients {
		// 每个客户一件样品，已有样品的客户跳过
		count, err := clientStore.CountSamples(ctx, client.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := time.Now()
		sampleType := sampleTypes[idx%len(sampleTypes)]
		sample := &model.Sample{
			ClientID:          client.ID,
			SampleType:        sampleType,
			SampleDescription: fmt.Sprintf("%s sample for quality assurance testing", sampleType),
			SampleCondition:   model.ConditionGood,
			Quantity:          "5 kg",
			LocationCollected: "Kampala Central",
			ReceivedByID:      receiver[0].ID,
			ReceivedDate:      now,
			Priority:          model.PriorityNormal,
			Status:            model.SampleReceived,
			DeliveryMethod:    "Walk-in",
			Notes:             fmt.Sprintf("Sample received from %s for quality assurance testing.", client.Name),
		}

		tests := seedTestsFor(sampleType, items)
		err = db.DB().ExecTx(ctx, func(txCtx context.Context) error {
			if sample.SampleID, err = idGen.NextSampleID(txCtx, now); err != nil {
				return err
			}
			if sample.ClientReference, err = idGen.NextClientReference(txCtx, now); err != nil {
				return err
			}
			if err := sampleStore.CreateSample(txCtx, sample, tests); err != nil {
				return err
			}
			return sampleStore.CreateData(txCtx, &model.SampleStatusHistory{
				SampleID:    sample.ID,
				NewStatus:   model.SampleReceived,
				ChangedByID: receiver[0].ID,
				ChangedAt:   now,
				Notes:       "sample registered",
			})
		})
		if err != nil {
			return err
		}
		created++
	}
	fmt.Printf("seeded %d samples\n", created)
	return nil
}

// seedTestsFor 选择与样品类型匹配的测试项，最多两项
func seedTestsFor(sampleType string, items []*model.TestItem) []*model.SampleTest {
	tests := make([]*model.SampleTest, 0, 2)
	for _, item := range items {
		if item.SampleType != sampleType {
			continue
		}
		tests = append(tests, &model.SampleTest{
			TestItemID:        item.ID,
			QuantityRequested: 1,
		})
		if len(tests) == 2 {
			break
		}
	}
	return tests
}
